package dataprovider

import (
	"github.com/kailas-cloud/dataprovider/internal/db"
	"github.com/kailas-cloud/dataprovider/internal/domain"
)

// Errors returned by Client.Search, matchable with errors.Is.
var (
	ErrConfiguration = domain.ErrConfiguration
	ErrResolution    = domain.ErrResolution
	ErrKeyExtraction = domain.ErrKeyExtraction
	ErrIndexNotFound = db.ErrIndexNotFound
	ErrInvalidQuery  = db.ErrInvalidQuery
)
