// Package route gates protected views behind the session store.
//
// A view is a Location: the path it is known by ("/payments") plus the
// shell words that run it ("payments list"). The Router remembers where
// the user is and where to return after signing in; the Guard refuses
// protected views while the store is not authenticated.
package route
