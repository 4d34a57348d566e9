// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
)

// Tab is the descriptor for one top-level webview. It is a thin
// handle: the interesting state lives on the target actor it points
// at.
type Tab struct {
	actor.Base
	target    string
	browserID id.BrowserID
}

// TabMsg is the tab descriptor form embedded in listTabs/getTab
// replies and in the watcher's target notifications.
type TabMsg struct {
	Actor             string `json:"actor"`
	BrowserID         uint32 `json:"browserId"`
	BrowsingContextID uint32 `json:"browsingContextID"`
	IsZombieTab       bool   `json:"isZombieTab"`
	OuterWindowID     uint32 `json:"outerWindowID"`
	Selected          bool   `json:"selected"`
	Title             string `json:"title"`
	TraitsMsg         struct {
		Watcher             bool `json:"watcher"`
		SupportsReloadDescr bool `json:"supportsReloadDescriptor"`
	} `json:"traits"`
	URL string `json:"url"`
}

func newTab(r *actor.Registry, target string, browserID id.BrowserID) *Tab {
	tab := &Tab{
		Base:      actor.NewBase(r.NewName(KindTab)),
		target:    target,
		browserID: browserID,
	}
	r.Register(tab)
	return tab
}

func (a *Tab) BrowserID() id.BrowserID {
	return a.browserID
}

// Encode builds the descriptor form. Selection is derived from the
// root actor's tab ordering.
func (a *Tab) Encode(r *actor.Registry) TabMsg {
	target := actor.Find[*Target](r, a.target)
	root := actor.Find[*Root](r, KindRoot.Prefix)
	title, url := target.TitleAndURL()
	msg := TabMsg{
		Actor:             a.Name(),
		BrowserID:         uint32(a.browserID),
		BrowsingContextID: uint32(target.ContextID()),
		OuterWindowID:     uint32(target.OuterWindowID()),
		Selected:          root.Selected(a.Name()),
		Title:             title,
		URL:               url,
	}
	msg.TraitsMsg.Watcher = true
	msg.TraitsMsg.SupportsReloadDescr = true
	return msg
}

type getTargetReply struct {
	From  string    `json:"from"`
	Frame TargetMsg `json:"frame"`
}

type getFaviconReply struct {
	From    string `json:"from"`
	Favicon string `json:"favicon"`
}

type getWatcherReply struct {
	From      string `json:"from"`
	Actor     string `json:"actor"`
	TraitsMsg struct {
		Frame             bool `json:"frame"`
		Process           bool `json:"process"`
		Worker            bool `json:"worker"`
		Resources         bool `json:"resources"`
		SupportsReloading bool `json:"supportsReloading"`
	} `json:"traits"`
}

func (a *Tab) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "getTarget":
		target := actor.Find[*Target](r, a.target)
		return req.Reply(getTargetReply{From: a.Name(), Frame: target.Encode(r)})

	case "getFavicon":
		return req.Reply(getFaviconReply{From: a.Name()})

	case "getWatcher":
		target := actor.Find[*Target](r, a.target)
		reply := getWatcherReply{From: a.Name(), Actor: target.WatcherName()}
		reply.TraitsMsg.Frame = true
		reply.TraitsMsg.Resources = true
		reply.TraitsMsg.SupportsReloading = true
		return req.Reply(reply)

	case "reloadDescriptor":
		target := actor.Find[*Target](r, a.target)
		if err := target.Reload(); err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(EmptyReply{From: a.Name()})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
