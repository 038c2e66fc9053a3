package middleware

// ASNKey is the gin context key both filters set once the request body's
// ASN has been extracted and authenticated, so handlers never re-parse the
// body to learn which ASN they're acting on.
const ASNKey = "dn42_asn"
