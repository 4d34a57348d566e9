// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/script"
)

const (
	demoWebView  id.WebViewID         = 1
	demoContext  id.BrowsingContextID = 1
	demoPipeline id.PipelineID        = 1
	demoURL                           = "https://example.test/"
	demoTitle                         = "Demo Page"
)

const demoMarkup = `<!DOCTYPE html>
<html>
<head><title>Demo Page</title><script>console.log("hello");</script></head>
<body><h1>It works</h1></body>
</html>
`

// demoEngine is a stand-in page: a small fixed document served
// over an in-process control channel, plus a scripted burst of
// navigation and network events on startup.
type demoEngine struct {
	events  chan<- script.Event
	logger  *slog.Logger
	control *script.ChannelControl

	mu    sync.Mutex
	nodes map[string]*demoNode
	root  string
}

type demoNode struct {
	info     script.NodeInfo
	children []string
}

func newDemoEngine(events chan<- script.Event, logger *slog.Logger) *demoEngine {
	e := &demoEngine{
		events:  events,
		logger:  logger,
		control: script.NewChannelControl(16),
		nodes:   make(map[string]*demoNode),
	}
	e.buildDocument()
	return e
}

func (e *demoEngine) buildDocument() {
	doc := e.addNode(script.NodeInfo{
		UniqueID: "demo-document", BaseURI: demoURL,
		NodeType: 9, NodeName: "#document", IsTopLevelDoc: true, IsDisplayed: true,
	})
	html := e.addNode(script.NodeInfo{
		UniqueID: "demo-html", Parent: doc, BaseURI: demoURL,
		NodeType: 1, NodeName: "HTML", Display: "block", IsDisplayed: true,
	})
	head := e.addNode(script.NodeInfo{
		UniqueID: "demo-head", Parent: html, BaseURI: demoURL,
		NodeType: 1, NodeName: "HEAD", Display: "none",
	})
	body := e.addNode(script.NodeInfo{
		UniqueID: "demo-body", Parent: html, BaseURI: demoURL,
		NodeType: 1, NodeName: "BODY", Display: "block", IsDisplayed: true,
		Attrs: []script.Attr{{Name: "class", Value: "demo"}},
	})
	title := e.addNode(script.NodeInfo{
		UniqueID: "demo-title", Parent: head, BaseURI: demoURL,
		NodeType: 1, NodeName: "TITLE", Display: "none",
	})
	e.addNode(script.NodeInfo{
		UniqueID: "demo-title-text", Parent: title, BaseURI: demoURL,
		NodeType: 3, NodeName: "#text", NodeValue: demoTitle,
	})
	h1 := e.addNode(script.NodeInfo{
		UniqueID: "demo-h1", Parent: body, BaseURI: demoURL,
		NodeType: 1, NodeName: "H1", Display: "block", IsDisplayed: true,
	})
	e.addNode(script.NodeInfo{
		UniqueID: "demo-h1-text", Parent: h1, BaseURI: demoURL,
		NodeType: 3, NodeName: "#text", NodeValue: "It works", IsDisplayed: true,
	})
	e.root = html
}

func (e *demoEngine) addNode(info script.NodeInfo) string {
	n := &demoNode{info: info}
	e.nodes[info.UniqueID] = n
	if info.Parent != "" {
		parent := e.nodes[info.Parent]
		parent.children = append(parent.children, info.UniqueID)
		parent.info.NumChildren = len(parent.children)
	}
	return info.UniqueID
}

// Start announces the demo page and begins serving commands.
func (e *demoEngine) Start(ctx context.Context) {
	go e.control.Serve(e)
	go func() {
		<-ctx.Done()
		e.control.Close()
	}()

	page := script.PageInfo{Title: demoTitle, URL: demoURL, IsTopLevelGlobal: true}
	e.events <- script.NewGlobal{
		WebView:  demoWebView,
		Context:  demoContext,
		Pipeline: demoPipeline,
		Page:     page,
		Control:  e.control,
	}
	e.events <- script.SourceLoaded{
		Pipeline: demoPipeline,
		URL:      demoURL,
		Content:  demoMarkup,
		IsInline: true,
	}
	e.emitNetworkExchange()
}

func (e *demoEngine) emitNetworkExchange() {
	headers := http.Header{}
	headers.Set("Accept", "text/html")
	e.events <- script.NetworkActivity{
		RequestID: "demo-request-1",
		Context:   demoContext,
		Phase:     script.PhaseRequest,
		Request: &script.HTTPRequest{
			URL:         demoURL,
			Method:      "GET",
			Headers:     headers,
			StartedAt:   time.Now(),
			TimeStamp:   time.Now().UnixMilli(),
			Destination: "document",
		},
	}
	respHeaders := http.Header{}
	respHeaders.Set("Content-Type", "text/html; charset=utf-8")
	e.events <- script.NetworkActivity{
		RequestID: "demo-request-1",
		Context:   demoContext,
		Phase:     script.PhaseResponse,
		Response: &script.HTTPResponse{
			Status:     200,
			StatusText: "OK",
			Headers:    respHeaders,
			Body:       []byte(demoMarkup),
		},
	}
}

// reload replays the navigation lifecycle for the fixed document.
func (e *demoEngine) reload() {
	page := script.PageInfo{Title: demoTitle, URL: demoURL, IsTopLevelGlobal: true}
	e.events <- script.NavigationStart{Context: demoContext, URL: demoURL}
	e.events <- script.NavigationStop{Context: demoContext, Pipeline: demoPipeline, Page: page}
	e.emitNetworkExchange()
}

func (e *demoEngine) HandleCommand(cmd script.Command) (any, error) {
	switch cmd := cmd.(type) {
	case script.GetDocumentElement:
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.nodes[e.root].info, nil

	case script.GetChildren:
		e.mu.Lock()
		defer e.mu.Unlock()
		node, ok := e.nodes[cmd.Node]
		if !ok {
			return nil, fmt.Errorf("unknown node %q", cmd.Node)
		}
		children := make([]script.NodeInfo, 0, len(node.children))
		for _, childID := range node.children {
			children = append(children, e.nodes[childID].info)
		}
		return children, nil

	case script.GetXPath:
		e.mu.Lock()
		defer e.mu.Unlock()
		path := ""
		for nodeID := cmd.Node; nodeID != ""; {
			node, ok := e.nodes[nodeID]
			if !ok {
				return nil, fmt.Errorf("unknown node %q", cmd.Node)
			}
			if node.info.NodeType == 1 {
				path = "/" + node.info.NodeName + path
			}
			nodeID = node.info.Parent
		}
		return path, nil

	case script.GetCSSDatabase:
		return map[string]script.CSSProperty{
			"color":   {IsInherited: true, Values: []string{"color"}},
			"display": {Values: []string{"keyword"}},
			"margin":  {Values: []string{"length"}, Subproperties: []string{"margin-top", "margin-right", "margin-bottom", "margin-left"}},
		}, nil

	case script.ModifyAttribute:
		e.mu.Lock()
		defer e.mu.Unlock()
		node, ok := e.nodes[cmd.Node]
		if !ok {
			return nil, fmt.Errorf("unknown node %q", cmd.Node)
		}
		for _, mod := range cmd.Modifications {
			node.applyAttribute(mod)
		}
		return nil, nil

	case script.Reload:
		go e.reload()
		return nil, nil

	case script.SimulateColorScheme, script.WantsLiveNotifications:
		return nil, nil

	default:
		e.logger.Warn("demo engine ignoring command", "kind", cmd.CommandKind())
		return nil, nil
	}
}

func (n *demoNode) applyAttribute(mod script.AttrModification) {
	for i, attr := range n.info.Attrs {
		if attr.Name != mod.AttributeName {
			continue
		}
		if mod.NewValue == nil {
			n.info.Attrs = append(n.info.Attrs[:i], n.info.Attrs[i+1:]...)
		} else {
			n.info.Attrs[i].Value = *mod.NewValue
		}
		return
	}
	if mod.NewValue != nil {
		n.info.Attrs = append(n.info.Attrs, script.Attr{Name: mod.AttributeName, Value: *mod.NewValue})
	}
}
