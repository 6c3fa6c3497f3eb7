package model

import "errors"

// ErrSourceNotFound is returned by repository lookups when neither an exact
// nor a fuzzy domain match exists. Callers translate it into their own
// surface (HTTP 404, a not-found envelope) instead of treating it as a
// failure of the lookup machinery.
var ErrSourceNotFound = errors.New("source not found")
