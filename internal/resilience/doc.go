// Package resilience groups the failure handling shared by every outbound
// integration: the language model backends, the publishing and marketing
// APIs, the news feeds and the calendar database.
//
// Subpackage circuitbreaker stops calling a dependency that keeps failing,
// and subpackage retry repeats transient failures with backoff. Adapters
// usually stack them, the breaker outermost:
//
//	cb := circuitbreaker.New(circuitbreaker.PublishingAPIConfig("devto"))
//	url, err := circuitbreaker.Run(cb, func() (string, error) {
//	    var url string
//	    err := retry.WithBackoff(ctx, retry.PublishingAPIConfig(), func() error {
//	        var err error
//	        url, err = createArticle(ctx, post)
//	        return err
//	    })
//	    return url, err
//	})
package resilience
