// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"fmt"

	"github.com/tern-browser/tern/id"
)

// Command is a typed instruction for the page. Commands whose kind has
// a reply type (see replyFor) are sent with RoundTrip; the rest are
// fire-and-forget.
type Command interface {
	// CommandKind is the stable name used to route the command on the
	// engine side and to tag IPC envelopes.
	CommandKind() string
}

// Control is the devtools side of the page control channel. Both
// transports implement it. Implementations are safe for concurrent use
// by multiple connection goroutines.
type Control interface {
	// Send delivers a command that expects no reply.
	Send(cmd Command) error
	// Request delivers a command and blocks for its single reply. The
	// dispatch of the requesting protocol message blocks with it; this
	// is the deliberate backpressure point between a debugger
	// connection and the page.
	Request(cmd Command) (any, error)
}

// RoundTrip is Request with the reply asserted to the command's reply
// type. A reply of the wrong dynamic type is a collaborator defect.
func RoundTrip[T any](c Control, cmd Command) (T, error) {
	var zero T
	v, err := c.Request(cmd)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("command %s: reply is %T, want %T", cmd.CommandKind(), v, zero)
	}
	return t, nil
}

// GetDocumentElement asks for the document element of a pipeline's
// document. Reply: NodeInfo.
type GetDocumentElement struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
}

func (GetDocumentElement) CommandKind() string { return "getDocumentElement" }

// GetChildren asks for the children of a node. Reply: []NodeInfo.
type GetChildren struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
	Node     string        `cbor:"node"`
}

func (GetChildren) CommandKind() string { return "getChildren" }

// GetXPath asks for the XPath locating a node. Reply: string.
type GetXPath struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
	Node     string        `cbor:"node"`
}

func (GetXPath) CommandKind() string { return "getXPath" }

// GetCSSDatabase asks for the engine's supported CSS properties.
// Reply: map[string]CSSProperty.
type GetCSSDatabase struct{}

func (GetCSSDatabase) CommandKind() string { return "getCSSDatabase" }

// ModifyAttribute applies attribute modifications to a node. No reply.
type ModifyAttribute struct {
	Pipeline      id.PipelineID      `cbor:"pipeline"`
	Node          string             `cbor:"node"`
	Modifications []AttrModification `cbor:"modifications"`
}

func (ModifyAttribute) CommandKind() string { return "modifyAttribute" }

// Reload reloads a pipeline's document. No reply.
type Reload struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
}

func (Reload) CommandKind() string { return "reload" }

// SimulateColorScheme overrides the page's reported color scheme.
// Scheme is "light" or "dark". No reply.
type SimulateColorScheme struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
	Scheme   string        `cbor:"scheme"`
}

func (SimulateColorScheme) CommandKind() string { return "simulateColorScheme" }

// WantsLiveNotifications tells the page whether any debugger still
// cares about lifecycle notifications for the pipeline. Sent with
// false when the last interested stream detaches. No reply.
type WantsLiveNotifications struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
	Enabled  bool          `cbor:"enabled"`
}

func (WantsLiveNotifications) CommandKind() string { return "wantsLiveNotifications" }

// HighlightNode asks the page to outline one node, or to clear the
// current outline when Node is empty. No reply.
type HighlightNode struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
	Node     string        `cbor:"node,omitempty"`
}

func (HighlightNode) CommandKind() string { return "highlightNode" }

// RequestAnimationFrame schedules one animation frame callback. The
// page answers with an AnimationFrameTick event addressed to Actor. No
// reply on the command channel.
type RequestAnimationFrame struct {
	Pipeline id.PipelineID `cbor:"pipeline"`
	Actor    string        `cbor:"actor"`
}

func (RequestAnimationFrame) CommandKind() string { return "requestAnimationFrame" }

// Attr is one attribute of a DOM node.
type Attr struct {
	Name  string `cbor:"name" json:"name"`
	Value string `cbor:"value" json:"value"`
}

// AttrModification changes or removes one attribute. A nil NewValue
// removes the attribute.
type AttrModification struct {
	AttributeName string  `cbor:"attributeName" json:"attributeName"`
	NewValue      *string `cbor:"newValue,omitempty" json:"newValue"`
}

// NodeInfo describes one DOM node as reported by the page. UniqueID is
// the page-side object identity the registry's script-actor binding
// keys on.
type NodeInfo struct {
	UniqueID        string  `cbor:"uniqueId"`
	Host            string  `cbor:"host,omitempty"` // shadow host id if this is a shadow root
	Parent          string  `cbor:"parent,omitempty"`
	BaseURI         string  `cbor:"baseURI"`
	NodeType        uint16  `cbor:"nodeType"`
	NodeName        string  `cbor:"nodeName"`
	NodeValue       string  `cbor:"nodeValue,omitempty"`
	NumChildren     int     `cbor:"numChildren"`
	Attrs           []Attr  `cbor:"attrs,omitempty"`
	IsTopLevelDoc   bool    `cbor:"isTopLevelDocument"`
	IsShadowHost    bool    `cbor:"isShadowHost"`
	ShadowRootMode  string  `cbor:"shadowRootMode,omitempty"`
	Display         string  `cbor:"display,omitempty"`
	IsDisplayed     bool    `cbor:"isDisplayed"`
	DoctypeName     *string `cbor:"doctypeName,omitempty"`
	DoctypePublicID *string `cbor:"doctypePublicId,omitempty"`
	DoctypeSystemID *string `cbor:"doctypeSystemId,omitempty"`
}

// CSSProperty describes one supported CSS property.
type CSSProperty struct {
	IsInherited   bool     `cbor:"isInherited" json:"isInherited"`
	Values        []string `cbor:"values" json:"values"`
	Supports      []string `cbor:"supports" json:"supports"`
	Subproperties []string `cbor:"subproperties" json:"subproperties"`
}

// PageInfo is the engine's description of a loaded page.
type PageInfo struct {
	Title            string `cbor:"title"`
	URL              string `cbor:"url"`
	IsTopLevelGlobal bool   `cbor:"isTopLevelGlobal"`
}
