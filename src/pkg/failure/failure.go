/*
Package failure describes the ways an upload, an analysis or an export can
end without a result, and the message the user is shown for each.
*/
package failure

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindInvalidFileType   Kind = "invalid_file_type"
	KindFileTooLarge      Kind = "file_too_large"
	KindNetworkFailure    Kind = "network_failure"
	KindServerError       Kind = "server_error"
	KindEncryptedDocument Kind = "encrypted_document"
	KindNoReportAvailable Kind = "no_report_available"
)

// Messages shown to the user.
const (
	MessageInvalidFileType   = "Please upload a PDF or image file (JPG, PNG)"
	MessageFileTooLarge      = "File too large. Please select a file under 10MB."
	MessageNetworkFailure    = "Upload failed. Please try again."
	MessageAnalysisFailed    = "Analysis failed. Please try again."
	MessageNoReportAvailable = "No report available to export."
	MessageUploadScreenshot  = "Please upload a screenshot of your bank statement"
)

/*
Failure is a terminal outcome for one attempt. Nothing is retried; the user
has to start over.
*/
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Is reports whether f is a failure of the given kind. A nil failure is no kind.
func (f *Failure) Is(kind Kind) bool {
	return f != nil && f.Kind == kind
}

func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

func InvalidFileType() *Failure   { return New(KindInvalidFileType, MessageInvalidFileType) }
func FileTooLarge() *Failure      { return New(KindFileTooLarge, MessageFileTooLarge) }
func NetworkFailure() *Failure    { return New(KindNetworkFailure, MessageNetworkFailure) }
func NoReportAvailable() *Failure { return New(KindNoReportAvailable, MessageNoReportAvailable) }

/*
FromServerMessage classifies the error string returned by the backend.

Any message mentioning "encrypt" in any letter case means the document is
password protected; everything else is a generic server error. An empty
message falls back to the generic analysis failure text.
*/
func FromServerMessage(message string) *Failure {
	if strings.Contains(strings.ToLower(message), "encrypt") {
		return New(KindEncryptedDocument, message)
	}
	if strings.TrimSpace(message) == "" {
		message = MessageAnalysisFailed
	}
	return New(KindServerError, message)
}
