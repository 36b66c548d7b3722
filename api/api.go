// Package api is the annotation surface scanned by spec-sync.
//
// Services declare operation and schema metadata through package-level
// calls to Define and Component. The declarations are inert at runtime:
// every builder returns an empty value and performs no work. spec-sync
// never executes this package; it recognizes the call shapes
// syntactically while walking the source tree, so every argument must
// be a literal or an in-file constant.
package api

// Builder is one metadata declaration inside a Define or Component
// call. Builders carry no runtime state.
type Builder struct{}

// Definition is the result of a Define or Component call. It exists
// only so declarations can be bound to the blank identifier:
//
//	var _ = api.Define(ListRewards, api.Route("/rewards", "GET"))
type Definition struct{}

// Define attaches operation metadata to a handler function. The
// handler must be a function declared in the same file, and the
// builder list must contain exactly one Route.
func Define(handler any, builders ...Builder) Definition {
	return Definition{}
}

// Component registers T as a reusable schema component. T must be a
// struct or named map type declared in the same file.
func Component[T any](builders ...Builder) Definition {
	return Definition{}
}

// Route declares the path template and HTTP methods of a handler.
// At least one method is required; duplicate (path, method) pairs
// across the scanned tree are a build-time error.
func Route(path string, methods ...string) Builder { return Builder{} }

// Summary sets the one-line operation summary.
func Summary(text string) Builder { return Builder{} }

// Description sets a longer description. Inside a parameter or
// example builder it describes that parameter or example instead.
func Description(text string) Builder { return Builder{} }

// Tags assigns grouping tags to the operation.
func Tags(tags ...string) Builder { return Builder{} }

// OperationID sets an explicit operationId.
func OperationID(id string) Builder { return Builder{} }

// Deprecated marks the operation or component as deprecated.
func Deprecated() Builder { return Builder{} }

// Ignore excludes the handler from scanning and coverage entirely.
func Ignore() Builder { return Builder{} }

// PathParam declares a path parameter of type T. Path parameters are
// always required.
func PathParam[T any](name string, opts ...Builder) Builder { return Builder{} }

// QueryParam declares a query parameter of type T.
func QueryParam[T any](name string, opts ...Builder) Builder { return Builder{} }

// HeaderParam declares a header parameter of type T.
func HeaderParam[T any](name string, opts ...Builder) Builder { return Builder{} }

// RequestBody declares the request body schema for one content type.
func RequestBody[T any](contentType string, opts ...Builder) Builder { return Builder{} }

// Response declares a response of type T for one status code and
// content type. Multiple Response declarations sharing a status code
// merge into one response object, unioning content types.
func Response[T any](status int, contentType string, opts ...Builder) Builder { return Builder{} }

// Responses declares the same response for several status codes at
// once. Combined with Methods, codes and methods expand as a cross
// product.
func Responses[T any](statuses []int, contentType string, opts ...Builder) Builder { return Builder{} }

// ResponseRange declares a response for a status range key such as
// "4XX" or "default".
func ResponseRange[T any](rangeKey string, contentType string, opts ...Builder) Builder { return Builder{} }

// DefaultResponse declares the "default" response.
func DefaultResponse[T any](contentType string, opts ...Builder) Builder { return Builder{} }

// Example declares an example value. Exactly one of Value,
// ExternalValue or ExampleRef must be supplied; placement defaults to
// the request body and is redirected by ForParam, ForResponse or
// ForSchema.
func Example(name string, opts ...Builder) Builder { return Builder{} }

// Security attaches a named security requirement to the operation.
func Security(schemes ...string) Builder { return Builder{} }

// Option builders, valid only inside another builder's option list.

// Required marks a query or header parameter as required.
func Required() Builder { return Builder{} }

// BodyRequired marks the request body as required.
func BodyRequired() Builder { return Builder{} }

// Default supplies a default value for a parameter.
func Default(value any) Builder { return Builder{} }

// Enum constrains a parameter schema to a fixed value set.
func Enum(values ...any) Builder { return Builder{} }

// Format sets an explicit schema format (for example "uuid").
func Format(format string) Builder { return Builder{} }

// SchemaName overrides type-argument inference with a component name.
// It always wins over the type argument.
func SchemaName(name string) Builder { return Builder{} }

// Methods restricts a response or example declaration to a subset of
// the routed methods. The filter is run-time metadata only and never
// appears in the output document.
func Methods(methods ...string) Builder { return Builder{} }

// Name overrides the component name derived from the type name.
func Name(name string) Builder { return Builder{} }

// Managed marks a component as managed by an external system. Emitted
// as the x-managed vendor extension.
func Managed() Builder { return Builder{} }

// Excluded removes the component from the output document entirely.
// Excluded beats every other lifecycle flag.
func Excluded() Builder { return Builder{} }

// Example option builders.

// Value supplies an inline example value.
func Value(value any) Builder { return Builder{} }

// ExternalValue supplies a URL pointing at an external example.
func ExternalValue(url string) Builder { return Builder{} }

// ExampleRef references a reusable example component by name.
func ExampleRef(name string) Builder { return Builder{} }

// ExampleSummary sets the example's one-line summary.
func ExampleSummary(text string) Builder { return Builder{} }

// ContentType restricts an example to one content type.
func ContentType(contentType string) Builder { return Builder{} }

// ForParam places the example on the named parameter.
func ForParam(name string) Builder { return Builder{} }

// ForRequestBody places the example on the request body.
func ForRequestBody() Builder { return Builder{} }

// ForResponse places the example on the response for a status code.
func ForResponse(status int) Builder { return Builder{} }

// ForSchema places the example on the component schema itself.
func ForSchema() Builder { return Builder{} }
