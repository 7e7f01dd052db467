// Package azdo talks to the Azure DevOps REST APIs used by the search facade.
//
// It implements two driven ports:
//
//   - driven.SearchClient: POST {searchURL}/{org}/_apis/search/{index}
//   - driven.ContentFetcher: GET {orgURL}/{project}/_apis/git/repositories/{repo}/items
//
// Authentication is applied by an oauth2 transport fed from a
// driven.TokenProvider. Requests are throttled by a RateLimiter that honours
// the service's X-RateLimit-* and Retry-After headers. Nothing is retried here.
package azdo
