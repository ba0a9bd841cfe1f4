// Package publisher cross-posts generated articles to external blogging
// platforms (Dev.to and Hashnode).
//
// Each client performs one API call per operation through webapi.Client,
// which adds the circuit breaker and retries on transient failures. Both
// clients also satisfy the pipeline's distributor contract.
package publisher
