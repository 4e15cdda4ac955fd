package importing

import "github.com/skute123/genai-defect-management/internal/domain/shared"

var (
	ErrEmptyFile       = shared.NewDomainError("IMPORT_EMPTY_FILE", "file is empty")
	ErrInvalidEncoding = shared.NewDomainError("IMPORT_INVALID_ENCODING", "file is not valid UTF-8")
	ErrMissingHeader   = shared.NewDomainError("IMPORT_MISSING_HEADER", "file has no header row")
)
