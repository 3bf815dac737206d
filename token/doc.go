// Package token acquires and caches the bearer credential required by the
// Red arrivals endpoint.
//
// The upstream site does not document how the credential is issued; it is
// either provisioned out of band or embedded in scraped HTML, and the exact
// location has changed between provider deployments. Acquisition is therefore
// modeled as an ordered list of strategies tried until one succeeds:
//   - env: pre-provisioned value from configuration/environment
//   - redirect: extracted from a redirect Location query parameter
//   - scrape: regex search over the planner page HTML
//   - fallback: scrape retried across alternate pages with browser-like headers
//
// The main type is Provider, which owns the cached credential and its expiry.
package token
