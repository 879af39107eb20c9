// Package session holds per-client state between requests.
//
// A Store loads the Session for a request and commits it into the response.
// Two stores are provided:
//
//   - CookieStore keeps every value in one cookie, encrypted when the
//     cookie manager has a secret.
//   - ServerStore keeps a random ID in the cookie and the values in a
//     Backend: CacheBackend over pkg/cache, or sqlstore.Backend over SQL.
//
// Stores skip the write for a new session that holds nothing and remove a
// persisted session once it has been emptied.
//
// Values decoded from storage are generic JSON values. Value and ValueOr
// convert them to the requested type:
//
//	count := session.ValueOr(sess, "visits", 0)
//	sess.Set("visits", count+1)
package session
