package jengaprotocol

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Response is the text the host returned for one command, with surrounding
// whitespace removed.
type Response struct {
	Text string
}

// NewResponse creates a response from text, trimming surrounding whitespace.
func NewResponse(text string) Response {
	return Response{Text: strings.TrimSpace(text)}
}

// DecodeResponse decodes raw reply bytes. Bytes that are not valid UTF-8
// fail with a ProtocolError.
func DecodeResponse(raw []byte) (Response, error) {
	if !utf8.Valid(raw) {
		return Response{}, NewProtocolError("response is not valid UTF-8", nil)
	}
	return NewResponse(string(raw)), nil
}

// Bool interprets the response as a boolean. Only "true", in any case,
// is true; every other text, including an empty reply, is false.
func (r Response) Bool() bool {
	return strings.ToLower(r.Text) == "true"
}

// IsAck returns true if the host acknowledged the command without a result.
func (r Response) IsAck() bool {
	return r.Text == AckResponse
}

// IsUnknownCommand returns true if the host did not recognise the verb.
func (r Response) IsUnknownCommand() bool {
	return r.Text == UnknownCommandResponse
}

// Int interprets the response as an integer.
func (r Response) Int() (int, error) {
	v, err := strconv.Atoi(r.Text)
	if err != nil {
		return 0, newUnexpectedResponseError(r.Text)
	}
	return v, nil
}

// Float interprets the response as a decimal number.
func (r Response) Float() (float64, error) {
	v, err := strconv.ParseFloat(r.Text, 64)
	if err != nil {
		return 0, newUnexpectedResponseError(r.Text)
	}
	return v, nil
}

// String implements fmt.Stringer.
func (r Response) String() string {
	return r.Text
}
