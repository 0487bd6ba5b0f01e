/*
Package analyzer talks to the statement analysis backend: one multipart
upload per analysis, answered with the AnalysisResult or an error message.
*/
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/failure"
	"finsight/src/pkg/statement"
	"finsight/src/pkg/upload"
)

// TypeField carries the upload kind next to the file part.
const TypeField = "type"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type Client struct {
	endpoint   string
	httpClient *http.Client
}

// errorBody is what the backend answers with on a non-2xx status.
type errorBody struct {
	Error string `json:"error"`
}

/*
NewClient returns a client for endpoint. A nil httpClient gets a client
without timeout: analyses can take as long as the backend needs.
*/
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

/*
Analyze uploads candidate and classifies the answer:

  - 2xx: the decoded AnalysisResult.
  - non-2xx whose error mentions "encrypt": EncryptedDocument.
  - other non-2xx: ServerError with the backend's message.
  - transport failures and unreadable bodies: NetworkFailure.

The request is not retried and not bound to ctx's cancellation or deadline,
so a client that goes away does not abort a running analysis.
*/
func (c *Client) Analyze(ctx context.Context, candidate upload.Candidate) (result statement.AnalysisResult, f *failure.Failure) {
	requestBody, contentType, e := buildRequestBody(candidate)
	if e != nil {
		return result, failure.NetworkFailure()
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s '%s' (%s, %s bytes) to '%s'",
		"Uploading", candidate.Name, candidate.Kind(), candidate.Size, c.endpoint,
	)

	request, newRequestErr := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, c.endpoint, requestBody)
	if newRequestErr != nil {
		tl.Log(tl.Error, palette.Red, "Failed to create upload request for '%s': %s", c.endpoint, newRequestErr)
		return result, failure.NetworkFailure()
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept-Encoding", AcceptEncoding)

	response, httpErr := c.httpClient.Do(request)
	if httpErr != nil {
		tl.Log(tl.Error, palette.Red, "Upload to '%s' failed: %s", c.endpoint, httpErr)
		return result, failure.NetworkFailure()
	}
	defer func() {
		_ = response.Body.Close()
	}()

	responseBody, e := readBody(response, c.endpoint)
	if e != nil {
		return result, failure.NetworkFailure()
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return result, classifyErrorResponse(response.Status, responseBody)
	}

	result, e = statement.Decode(bytes.NewReader(responseBody))
	if e != nil {
		tl.Log(tl.Error, palette.Red, "%s from '%s'", "Undecodable analysis result", c.endpoint)
		return result, failure.NetworkFailure()
	}

	tl.Log(
		tl.Notice1, palette.GreenBold, "%s: %s transactions, %s categories",
		"Analysis received", len(result.Transactions), len(result.Categories),
	)
	return result, nil
}

func classifyErrorResponse(status string, responseBody []byte) *failure.Failure {
	var body errorBody
	unmarshalErr := json.Unmarshal(responseBody, &body)
	if unmarshalErr != nil {
		tl.Log(tl.Error, palette.Red, "Backend answered '%s' with an unreadable body", status)
		return failure.NetworkFailure()
	}

	serverFailure := failure.FromServerMessage(body.Error)
	tl.Log(tl.Warning, palette.Yellow, "Backend answered '%s': '%s'", status, serverFailure.Message)
	return serverFailure
}

/*
buildRequestBody writes the multipart form: the file under "pdf" or "image"
with its own name and MIME type, then the "type" field.
*/
func buildRequestBody(candidate upload.Candidate) (body *bytes.Buffer, contentType string, e *xerr.Error) {
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set(
		"Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, candidate.Kind(), quoteEscaper.Replace(candidate.Name)),
	)
	header.Set("Content-Type", candidate.MimeType)

	part, partErr := writer.CreatePart(header)
	if partErr != nil {
		e = xerr.NewError(partErr, "create multipart file part", candidate.Name)
		return body, contentType, e
	}
	_, writeErr := part.Write(candidate.Raw)
	if writeErr != nil {
		e = xerr.NewError(writeErr, "write multipart file part", candidate.Name)
		return body, contentType, e
	}

	fieldErr := writer.WriteField(TypeField, string(candidate.Kind()))
	if fieldErr != nil {
		e = xerr.NewError(fieldErr, "write multipart type field", candidate.Kind())
		return body, contentType, e
	}

	closeErr := writer.Close()
	if closeErr != nil {
		e = xerr.NewError(closeErr, "close multipart writer", candidate.Name)
		return body, contentType, e
	}

	return body, writer.FormDataContentType(), e
}
