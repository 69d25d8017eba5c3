// Package oai reads OAI-PMH 2.0 responses returned by the heritage API.
package oai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/rshade/heritage-client/internal/heritage/client"
)

// Header is the record header shared by ListIdentifiers, ListRecords and GetRecord.
type Header struct {
	Identifier string
	Datestamp  string
	SetSpecs   []string
	Deleted    bool
}

// ResumptionToken continues an incomplete list.
type ResumptionToken struct {
	Token string
	// CompleteListSize and Cursor are -1 when the server omits them.
	CompleteListSize int
	Cursor           int
}

// Error is a protocol error reported inside an OAI-PMH response.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "OAI-PMH error " + e.Code
	}
	return fmt.Sprintf("OAI-PMH error %s: %s", e.Code, e.Message)
}

// Is matches OAI errors by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Protocol error codes, usable with errors.Is.
var (
	ErrNoRecordsMatch     = &Error{Code: "noRecordsMatch"}
	ErrBadResumptionToken = &Error{Code: "badResumptionToken"}
	ErrIDDoesNotExist     = &Error{Code: "idDoesNotExist"}
	ErrCannotDisseminate  = &Error{Code: "cannotDisseminateFormat"}
	ErrBadArgument        = &Error{Code: "badArgument"}
	ErrBadVerb            = &Error{Code: "badVerb"}
	ErrNoSetHierarchy     = &Error{Code: "noSetHierarchy"}
	ErrNoMetadataFormats  = &Error{Code: "noMetadataFormats"}
)

var errNotOAI = errors.New("not an OAI-PMH response")

// Page is one parsed OAI-PMH response.
type Page struct {
	Verb         string
	ResponseDate string
	Headers      []Header
	Errors       []Error
	// Resumption is nil when the list is complete.
	Resumption *ResumptionToken
}

// Err returns the first protocol error, or nil.
func (p *Page) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return &p.Errors[0]
}

// HasMore reports whether the server handed out a non-empty resumption token.
func (p *Page) HasMore() bool {
	return p.Resumption != nil && p.Resumption.Token != ""
}

// Parse extracts headers, protocol errors and the resumption token from an
// OAI-PMH document. Elements are matched by local name so both prefixed and
// default-namespace documents are accepted.
func Parse(data []byte) (*Page, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := xmlquery.FindOne(doc, "/*[local-name()='OAI-PMH']")
	if root == nil {
		return nil, errNotOAI
	}

	page := &Page{
		ResponseDate: text(xmlquery.FindOne(root, "*[local-name()='responseDate']")),
	}
	if req := xmlquery.FindOne(root, "*[local-name()='request']"); req != nil {
		page.Verb = req.SelectAttr("verb")
	}

	for _, n := range xmlquery.Find(root, "*[local-name()='error']") {
		page.Errors = append(page.Errors, Error{
			Code:    n.SelectAttr("code"),
			Message: text(n),
		})
	}

	headers, err := xmlquery.QueryAll(root, "//*[local-name()='header']")
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression: %w", err)
	}
	for _, n := range headers {
		h := Header{
			Identifier: text(xmlquery.FindOne(n, "*[local-name()='identifier']")),
			Datestamp:  text(xmlquery.FindOne(n, "*[local-name()='datestamp']")),
			Deleted:    n.SelectAttr("status") == "deleted",
		}
		for _, s := range xmlquery.Find(n, "*[local-name()='setSpec']") {
			h.SetSpecs = append(h.SetSpecs, text(s))
		}
		page.Headers = append(page.Headers, h)
	}

	if rt := xmlquery.FindOne(root, "//*[local-name()='resumptionToken']"); rt != nil {
		page.Resumption = &ResumptionToken{
			Token:            text(rt),
			CompleteListSize: intAttr(rt, "completeListSize"),
			Cursor:           intAttr(rt, "cursor"),
		}
	}

	return page, nil
}

func text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}

func intAttr(n *xmlquery.Node, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(n.SelectAttr(name)))
	if err != nil {
		return -1
	}
	return v
}

// Requester issues OAI-PMH requests. *client.Client satisfies it.
type Requester interface {
	OAIPMH(ctx context.Context, params client.OAIParams) (*client.Envelope[string], error)
}

var _ Requester = (*client.Client)(nil)

// Harvest follows resumption tokens from params until the list is complete,
// calling fn for every header in order. noRecordsMatch ends the harvest
// without error; any other protocol error is returned.
func Harvest(ctx context.Context, r Requester, params client.OAIParams, fn func(Header) error) error {
	for {
		env, err := r.OAIPMH(ctx, params)
		if err != nil {
			return err
		}

		page, err := Parse([]byte(env.Data))
		if err != nil {
			return fmt.Errorf("parsing %s response: %w", params.Verb, err)
		}
		if err := page.Err(); err != nil {
			if errors.Is(err, ErrNoRecordsMatch) {
				return nil
			}
			return err
		}

		for _, h := range page.Headers {
			if err := fn(h); err != nil {
				return err
			}
		}

		if !page.HasMore() {
			return nil
		}
		params = client.OAIParams{Verb: params.Verb, ResumptionToken: page.Resumption.Token}
	}
}
