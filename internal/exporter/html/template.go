package html

// ReportTemplate is a Swagger-style HTML template for the sync report
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Specification Sync Report - {{.GeneratedAt}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 40px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }

        header h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
        }

        header p {
            font-size: 1.1em;
            opacity: 0.9;
        }

        .summary {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .summary h2 {
            color: #667eea;
            margin-bottom: 15px;
            font-size: 1.5em;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
            margin-top: 15px;
        }

        .stat-card {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            border-left: 4px solid #667eea;
        }

        .stat-card .label {
            font-size: 0.9em;
            color: #6c757d;
            margin-bottom: 5px;
        }

        .stat-card .value {
            font-size: 1.8em;
            font-weight: bold;
            color: #2c3e50;
        }

        .tag-group h2 {
            color: #667eea;
            margin: 30px 0 15px;
            font-size: 1.4em;
        }

        .endpoint {
            background: white;
            margin-bottom: 20px;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .endpoint-header {
            padding: 20px;
            background: #f8f9fa;
            border-bottom: 1px solid #e9ecef;
        }

        .endpoint-title {
            display: flex;
            align-items: center;
            gap: 15px;
            margin-bottom: 10px;
        }

        .method-badge {
            display: inline-block;
            padding: 6px 12px;
            border-radius: 4px;
            font-weight: bold;
            font-size: 0.85em;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }

        .method-get { background: #61affe; color: white; }
        .method-post { background: #49cc90; color: white; }
        .method-put { background: #fca130; color: white; }
        .method-delete { background: #f93e3e; color: white; }
        .method-patch { background: #50e3c2; color: white; }
        .method-default { background: #6c757d; color: white; }

        .status-badge {
            display: inline-block;
            padding: 4px 10px;
            border-radius: 4px;
            font-size: 0.8em;
            font-weight: 600;
            margin-left: auto;
        }

        .status-insync { background: #e8f5e9; color: #2e7d32; }
        .status-drift { background: #ffebee; color: #c62828; }
        .status-missing { background: #fff3e0; color: #e65100; }

        .endpoint-path {
            font-size: 1.3em;
            font-weight: 600;
            color: #2c3e50;
            font-family: 'Courier New', monospace;
        }

        .endpoint-summary {
            color: #6c757d;
        }

        .endpoint-body {
            padding: 20px;
        }

        .section-title {
            font-weight: 600;
            color: #667eea;
            margin: 15px 0 8px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th {
            background: #f8f9fa;
            text-align: left;
            padding: 8px 12px;
            font-size: 0.85em;
            text-transform: uppercase;
            color: #6c757d;
            border-bottom: 2px solid #e9ecef;
        }

        td {
            padding: 8px 12px;
            border-bottom: 1px solid #e9ecef;
            font-size: 0.95em;
        }

        .param-name { font-family: 'Courier New', monospace; font-weight: 600; }
        .param-type { font-family: 'Courier New', monospace; color: #764ba2; }
        .param-in {
            background: #e9ecef;
            padding: 2px 8px;
            border-radius: 3px;
            font-size: 0.85em;
        }

        .required-badge { color: #c62828; font-weight: 600; font-size: 0.85em; }
        .optional-badge { color: #6c757d; font-size: 0.85em; }

        .orphans {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-top: 30px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .orphans h2 { color: #e65100; margin-bottom: 10px; }
        .orphans li { margin-left: 20px; font-family: 'Courier New', monospace; }

        footer {
            text-align: center;
            color: #6c757d;
            margin: 40px 0 20px;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Specification Sync Report</h1>
            <p>Generated on {{.GeneratedAt}}</p>
        </header>

        <div class="summary">
            <h2>Overview</h2>
            <div class="stats">
                <div class="stat-card">
                    <div class="label">Coverage</div>
                    <div class="value">{{.CoveragePercent}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Endpoints</div>
                    <div class="value">{{.TotalEndpoints}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Schema Components</div>
                    <div class="value">{{.TotalSchemas}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Drift Entries</div>
                    <div class="value">{{.DriftCount}}</div>
                </div>
            </div>
        </div>

        {{range .Groups}}
        <div class="tag-group">
            <h2>{{.Title}}</h2>
            {{range .Endpoints}}
            <div class="endpoint">
                <div class="endpoint-header">
                    <div class="endpoint-title">
                        <span class="method-badge {{methodColor .Method}}">{{.Method}}</span>
                        <span class="endpoint-path">{{.Path}}</span>
                        <span class="status-badge {{statusColor .Status}}">{{.Status}}</span>
                    </div>
                    {{if .Summary}}
                    <div class="endpoint-summary">{{.Summary}}</div>
                    {{end}}
                </div>

                <div class="endpoint-body">
                    {{if .Params}}
                    <div class="section-title">Parameters</div>
                    <table>
                        <thead>
                            <tr>
                                <th>Name</th>
                                <th>Type</th>
                                <th>In</th>
                                <th>Required</th>
                                <th>Description</th>
                            </tr>
                        </thead>
                        <tbody>
                            {{range .Params}}
                            <tr>
                                <td class="param-name">{{.Name}}</td>
                                <td class="param-type">{{.Type}}</td>
                                <td><span class="param-in">{{.In}}</span></td>
                                <td>
                                    {{if .Required}}
                                    <span class="required-badge">REQUIRED</span>
                                    {{else}}
                                    <span class="optional-badge">Optional</span>
                                    {{end}}
                                </td>
                                <td>{{.Description}}</td>
                            </tr>
                            {{end}}
                        </tbody>
                    </table>
                    {{end}}

                    {{if .Responses}}
                    <div class="section-title">Responses</div>
                    <table>
                        <thead>
                            <tr>
                                <th>Status</th>
                                <th>Content Types</th>
                                <th>Schema</th>
                                <th>Description</th>
                            </tr>
                        </thead>
                        <tbody>
                            {{range .Responses}}
                            <tr>
                                <td>{{.Status}}</td>
                                <td>{{.Types}}</td>
                                <td class="param-type">{{.Schema}}</td>
                                <td>{{.Description}}</td>
                            </tr>
                            {{end}}
                        </tbody>
                    </table>
                    {{end}}
                </div>
            </div>
            {{end}}
        </div>
        {{end}}

        {{if .Schemas}}
        <div class="summary">
            <h2>Schema Components</h2>
            <table>
                <thead>
                    <tr>
                        <th>Name</th>
                        <th>Kind</th>
                        <th>Properties</th>
                        <th>Status</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Schemas}}
                    <tr>
                        <td class="param-name">{{.Name}}</td>
                        <td class="param-type">{{.Kind}}</td>
                        <td>{{.Properties}}</td>
                        <td><span class="status-badge {{statusColor .Status}}">{{.Status}}</span></td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        {{if or .OrphanOperations .OrphanSchemas}}
        <div class="orphans">
            <h2>Orphans</h2>
            <ul>
                {{range .OrphanOperations}}<li>operation {{.}}</li>{{end}}
                {{range .OrphanSchemas}}<li>schema {{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}

        <footer>
            <p>Generated by <strong>spec-sync</strong></p>
        </footer>
    </div>
</body>
</html>
`
