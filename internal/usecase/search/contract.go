package search

import "github.com/kailas-cloud/dataprovider/internal/usecase/dataprovider"

// Backend runs the page and count queries of a search.
type Backend = dataprovider.Backend
