// Package distributor schedules social posts through the Postiz public API.
//
// Postiz fans one request out to many connected social accounts
// ("integrations"). Its quota counts API calls rather than posts, so a whole
// SocialBundle goes out in a single request and the client holds a
// 30-requests-per-hour token bucket.
package distributor
