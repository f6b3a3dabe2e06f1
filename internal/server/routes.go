package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/danmuck/ircwire/internal/observability"
	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MessageJSON is the HTTP form of protocol.Message.
type MessageJSON struct {
	Source  string   `json:"source,omitempty"`
	Verb    string   `json:"verb"`
	Numeric bool     `json:"numeric"`
	Params  []string `json:"params"`
}

func ToJSON(msg protocol.Message) MessageJSON {
	params := msg.Params
	if params == nil {
		params = []string{}
	}
	return MessageJSON{
		Source:  msg.Source,
		Verb:    msg.Verb.String(),
		Numeric: msg.Verb.Kind() == protocol.VerbNumeric,
		Params:  params,
	}
}

// FromJSON resolves the verb and validates the result for a clean round trip.
func FromJSON(in MessageJSON) (protocol.Message, error) {
	verb, err := protocol.ClassifyVerb(in.Verb)
	if err != nil {
		return protocol.Message{}, err
	}
	if in.Numeric != (verb.Kind() == protocol.VerbNumeric) {
		return protocol.Message{}, errors.New("server: numeric flag does not match verb")
	}
	msg := protocol.Message{Source: in.Source, Verb: verb}
	if len(in.Params) > 0 {
		msg.Params = in.Params
	}
	if err := msg.Validate(); err != nil {
		return protocol.Message{}, err
	}
	return msg, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.opts.Name,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/decode", s.handleDecode)
	s.router.POST("/encode", s.handleEncode)
}

func (s *Server) handleDecode(c *gin.Context) {
	limit := int64(s.opts.Limits.MaxLineBytes)
	body := io.Reader(c.Request.Body)
	if limit > 0 {
		body = io.LimitReader(body, limit+1)
	}
	line, err := io.ReadAll(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if limit > 0 && int64(len(line)) > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "line exceeds limit"})
		return
	}

	msg, err := protocol.Decode(line)
	observability.RecordDecode(len(line), err)
	if err != nil {
		kind := protocol.ErrorKind(err)
		c.Set(observability.ContextKeyDecodeKind, kind)
		resp := gin.H{"error": err.Error(), "kind": kind}
		if rest, ok := protocol.Remainder(err); ok {
			resp["remainder"] = rest
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusOK, ToJSON(msg))
}

func (s *Server) handleEncode(c *gin.Context) {
	var in MessageJSON
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := FromJSON(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": protocol.ErrorKind(err)})
		return
	}
	line := protocol.Encode(msg)
	observability.RecordEncode(len(line))
	c.JSON(http.StatusOK, gin.H{"line": line})
}
