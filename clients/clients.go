package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

// Transcribing a full recording can take minutes, keep the timeout loose.
func NewHTTP() *HTTP { return &HTTP{c: &http.Client{Timeout: 10 * time.Minute}} }
