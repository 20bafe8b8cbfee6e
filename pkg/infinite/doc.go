// Package infinite is the HTTP layer shared by every resource service of the
// Infinite platform SDK.
//
// # Overview
//
// Every platform endpoint answers with the same envelope:
//
//	{
//	  "data":     {...} | [...],
//	  "response": {"success": true, "message": "...", "action": "...", "time": 12}
//	}
//
// response.success decides whether a call succeeded, whatever the HTTP status
// was. Client.RawQuery issues the request and returns the envelope, a
// *LogicalFailureError (success == false) or a *TransportError (network or
// HTTP failure). Get/Post/Put/Delete fix the method; GET takes query
// parameters as its second argument while POST, PUT and DELETE take the body
// first and the query second.
//
// # Envelope helpers
//
//   - ResolveWithData: data, or ErrEmptyResponse / ErrMissingData
//   - ResolveWithDataID: data._id, or ErrMissingID
//   - ResolveWithDataOrArray / ResolveWithDataOrObject: [] or {} when data is absent
//   - ResolveWithResponse: the response object
//   - DecodeData: typed decode of data (json field names, platform timestamps)
//
// # Identifiers
//
// Parameters documented as "ids" accept a single id, a comma separated list,
// a []string, a []IDRef or any slice of values implementing Identified.
// IDListAsString, IDListAsArray and IDListAsObjects convert between them.
//
// # Configuration Example
//
//	base_url   = "https://infinite.example.com/api"
//	api_key    = env("INFINITE_API_KEY")
//	timeout    = "30s"
//	tls_verify = true
//
// See LoadConfig. Endpoints default to the platform's standard paths.
//
// # Error Handling
//
// Nothing is retried. Arguments rejected locally wrap ErrValidation and no
// request is sent.
package infinite
