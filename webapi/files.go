package webapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// FilesGetUploadURLResult carries the one-shot upload destination issued by
// the platform for an external upload.
type FilesGetUploadURLResult struct {
	APIResponse
	UploadURL string `json:"upload_url,omitempty"`
	FileID    string `json:"file_id,omitempty"`
}

// FilesGetUploadURLExternal reserves an upload slot for a file of the given
// size and returns the URL to send the bytes to.
func (c *Client) FilesGetUploadURLExternal(ctx context.Context, filename string, length int, altText string) (*FilesGetUploadURLResult, error) {
	params := url.Values{}
	params.Set("filename", filename)
	params.Set("length", strconv.Itoa(length))
	if altText != "" {
		params.Set("alt_txt", altText)
	}
	res := &FilesGetUploadURLResult{}
	if err := c.postForm(ctx, "files.getUploadURLExternal", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// FileSummary identifies an uploaded file for completion.
type FileSummary struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// FilesCompleteUploadResult lists the finalized files.
type FilesCompleteUploadResult struct {
	APIResponse
	Files []File `json:"files"`
}

// FilesCompleteUploadExternal finalizes previously uploaded files and,
// optionally, shares them into a conversation.
func (c *Client) FilesCompleteUploadExternal(ctx context.Context, files []FileSummary, channelID, threadTS string) (*FilesCompleteUploadResult, error) {
	payload := struct {
		Files     []FileSummary `json:"files"`
		ChannelID string        `json:"channel_id,omitempty"`
		ThreadTS  string        `json:"thread_ts,omitempty"`
	}{Files: files, ChannelID: channelID, ThreadTS: threadTS}

	res := &FilesCompleteUploadResult{}
	if err := c.postJSON(ctx, "files.completeUploadExternal", payload, res); err != nil {
		return nil, err
	}
	return res, nil
}

// UploadFileParams describes a file upload driven end to end by UploadFile.
type UploadFileParams struct {
	Filename string
	Title    string
	Content  []byte
	Channel  string
	ThreadTS string
	AltText  string
}

// UploadFile runs the three-step external upload flow: reserve an upload
// URL, send the bytes, then complete the upload. The returned File reflects
// the finalized state.
func (c *Client) UploadFile(ctx context.Context, params UploadFileParams) (*File, error) {
	slot, err := c.FilesGetUploadURLExternal(ctx, params.Filename, len(params.Content), params.AltText)
	if err != nil {
		return nil, err
	}

	if err := c.uploadBytes(ctx, slot.UploadURL, params.Content); err != nil {
		return nil, err
	}

	done, err := c.FilesCompleteUploadExternal(ctx, []FileSummary{{ID: slot.FileID, Title: params.Title}}, params.Channel, params.ThreadTS)
	if err != nil {
		return nil, err
	}
	if len(done.Files) == 0 {
		return nil, fmt.Errorf("webapi: upload of %q completed without file record", params.Filename)
	}
	return &done.Files[0], nil
}

// uploadBytes sends raw content to the reserved upload URL. The destination
// is pre-authorized, so no API envelope or token applies.
func (c *Client) uploadBytes(ctx context.Context, uploadURL string, content []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webapi: file upload failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}
	return nil
}
