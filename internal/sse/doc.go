// Package sse decodes server-sent-event style streams: chunked HTTP bodies
// framed as "data: <payload>" blocks separated by blank lines.
//
// The backend's compile-stream and ota-stream endpoints both use this
// framing, so the buffer-scan loop lives here once instead of being
// duplicated per consumer. The reader copes with delimiters split across
// chunks, CRLF line endings, multi-line data fields, and comment frames,
// and it discards a trailing partial frame when the stream ends mid-event.
package sse
