package mocks

//go:generate mockery --name SalesStore --srcpkg github.com/aevon-lab/slsrpt-ingest/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
