// Package httpclient provides the HTTP layer under the event source
// transport: default headers, authentication and streaming requests whose
// failures are classified into typed errors.
//
// The sse subpackage parses the text/event-stream wire format.
//
// # Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	stream, err := client.DoStream(ctx, httpclient.Request{
//	    Method:  http.MethodGet,
//	    Path:    "https://api.example.com/events",
//	    Headers: map[string]string{"Accept": "text/event-stream"},
//	})
//	defer stream.Close()
//	ev, err := stream.SSE.Next()
package httpclient
