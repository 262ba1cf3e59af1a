package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Client errors (4xx)
	TagNotFound   = goerr.NewTag("not_found")  // 404
	TagValidation = goerr.NewTag("validation") // 400
	TagConflict   = goerr.NewTag("conflict")   // 409

	// Server errors (5xx)
	TagInternal      = goerr.NewTag("internal")      // 500
	TagExternal      = goerr.NewTag("external")      // 502
	TagDatabase      = goerr.NewTag("database")      // 500 (specific to DB errors)
	TagConfiguration = goerr.NewTag("configuration") // 503, missing credential or client

	// Upstream AI errors
	TagLLMError           = goerr.NewTag("llm_error")
	TagInvalidLLMResponse = goerr.NewTag("invalid_llm_response")
	TagCacheUnavailable   = goerr.NewTag("cache_unavailable") // absorbed, log-only
	TagDocStoreError      = goerr.NewTag("docstore_error")
)
