// Package httpclient is the HTTP transport used to talk to the registry.
//
// Send returns the response for every status code; only failures to obtain a
// response at all (connection refused, timeout, open circuit, invalid request)
// are returned as *Error. Callers that want non-2xx treated as errors use Do.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://registry:8761",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BasicAuth(appID, secret),
//	})
//	resp, err := client.Send(ctx, httpclient.Request{
//	    Method: http.MethodPut,
//	    Path:   "/eureka/apps/ORDERS/host:orders:8080",
//	})
//
// Each request runs inside an OpenTelemetry client span. An optional circuit
// breaker counts transport failures; an optional rate limiter paces requests.
package httpclient
