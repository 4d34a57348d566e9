// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"sync"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
)

// Root is the singleton entry-point actor. Clients discover every
// other actor by asking it for the tab list; it also pushes
// tabListChanged notifications to streams that have listed tabs at
// least once.
type Root struct {
	actor.Base

	process string

	mu        sync.Mutex
	tabs      []string
	listeners map[protocol.StreamID]*protocol.Stream
}

// RootGreeting is written unprompted to every new connection before
// any request is read.
type RootGreeting struct {
	From            string     `json:"from"`
	ApplicationType string     `json:"applicationType"`
	Traits          RootTraits `json:"traits"`
}

type RootTraits struct {
	Sources            bool `json:"sources"`
	Highlightable      bool `json:"highlightable"`
	CustomHighlighters bool `json:"customHighlighters"`
	NetworkMonitor     bool `json:"networkMonitor"`
}

// NewRoot registers the root singleton and the parent process
// descriptor.
func NewRoot(r *actor.Registry) *Root {
	root := &Root{
		Base:      actor.NewBase(r.NewName(KindRoot)),
		process:   newProcess(r).Name(),
		listeners: make(map[protocol.StreamID]*protocol.Stream),
	}
	r.Register(root)
	return root
}

// Greeting builds the packet sent when a stream connects.
func (a *Root) Greeting() RootGreeting {
	return RootGreeting{
		From:            a.Name(),
		ApplicationType: "browser",
		Traits: RootTraits{
			Highlightable:      true,
			CustomHighlighters: true,
		},
	}
}

// AddTab appends a tab descriptor and notifies listing streams.
func (a *Root) AddTab(tab string) {
	a.mu.Lock()
	a.tabs = append(a.tabs, tab)
	streams := a.snapshotListenersLocked()
	a.mu.Unlock()
	a.notifyTabListChanged(streams)
}

// RemoveTab drops a tab descriptor and notifies listing streams.
func (a *Root) RemoveTab(tab string) {
	a.mu.Lock()
	for i, name := range a.tabs {
		if name == tab {
			a.tabs = append(a.tabs[:i], a.tabs[i+1:]...)
			break
		}
	}
	streams := a.snapshotListenersLocked()
	a.mu.Unlock()
	a.notifyTabListChanged(streams)
}

// Selected reports whether the named tab is the selected one. The
// first registered tab is selected; tab ordering is stable.
func (a *Root) Selected(tab string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tabs) > 0 && a.tabs[0] == tab
}

func (a *Root) snapshotListenersLocked() []*protocol.Stream {
	streams := make([]*protocol.Stream, 0, len(a.listeners))
	for _, s := range a.listeners {
		streams = append(streams, s)
	}
	return streams
}

type tabListChanged struct {
	From string `json:"from"`
	Type string `json:"type"`
}

func (a *Root) notifyTabListChanged(streams []*protocol.Stream) {
	msg := tabListChanged{From: a.Name(), Type: "tabListChanged"}
	for _, s := range streams {
		// Write failures surface as connection errors elsewhere.
		_ = s.WritePacket(msg)
	}
}

type listTabsReply struct {
	From string   `json:"from"`
	Tabs []TabMsg `json:"tabs"`
}

type getTabReply struct {
	From string `json:"from"`
	Tab  TabMsg `json:"tab"`
}

type getRootReply struct {
	From            string `json:"from"`
	Selected        int    `json:"selected"`
	PreferenceActor string `json:"preferenceActor"`
}

type listWorkersReply struct {
	From    string `json:"from"`
	Workers []any  `json:"workers"`
}

type listAddonsReply struct {
	From   string `json:"from"`
	Addons []any  `json:"addons"`
}

type listProcessesReply struct {
	From      string       `json:"from"`
	Processes []ProcessMsg `json:"processes"`
}

type getProcessReply struct {
	From              string     `json:"from"`
	ProcessDescriptor ProcessMsg `json:"processDescriptor"`
}

type protocolDescriptionReply struct {
	From  string         `json:"from"`
	Types map[string]any `json:"types"`
}

func (a *Root) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "listTabs":
		a.mu.Lock()
		tabs := append([]string(nil), a.tabs...)
		a.listeners[streamID] = req.Stream()
		a.mu.Unlock()
		reply := listTabsReply{From: a.Name(), Tabs: make([]TabMsg, 0, len(tabs))}
		for _, name := range tabs {
			reply.Tabs = append(reply.Tabs, actor.Encode[*Tab, TabMsg](r, name))
		}
		return req.Reply(reply)

	case "getTab":
		browserID, err := actor.GetFloat(msg, "browserId")
		if err != nil {
			return err
		}
		a.mu.Lock()
		tabs := append([]string(nil), a.tabs...)
		a.mu.Unlock()
		for _, name := range tabs {
			tab := actor.Find[*Tab](r, name)
			if uint32(browserID) == uint32(tab.BrowserID()) {
				return req.Reply(getTabReply{From: a.Name(), Tab: tab.Encode(r)})
			}
		}
		return protocol.Internalf("no tab with browserId %v", browserID)

	case "getRoot":
		return req.Reply(getRootReply{
			From:            a.Name(),
			PreferenceActor: KindPreference.Prefix,
		})

	case "listAddons":
		return req.Reply(listAddonsReply{From: a.Name(), Addons: []any{}})

	case "listWorkers", "listServiceWorkers":
		return req.Reply(listWorkersReply{From: a.Name(), Workers: []any{}})

	case "listProcesses":
		process := actor.Find[*Process](r, a.process)
		return req.Reply(listProcessesReply{
			From:      a.Name(),
			Processes: []ProcessMsg{process.Encode()},
		})

	case "getProcess":
		process := actor.Find[*Process](r, a.process)
		return req.Reply(getProcessReply{
			From:              a.Name(),
			ProcessDescriptor: process.Encode(),
		})

	case "connect":
		// The frontend announces itself before listing tabs; there is
		// no session state to establish.
		return req.Reply(EmptyReply{From: a.Name()})

	case "protocolDescription":
		return req.Reply(protocolDescriptionReply{From: a.Name(), Types: map[string]any{}})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

func (a *Root) CleanupStream(streamID protocol.StreamID) {
	a.mu.Lock()
	delete(a.listeners, streamID)
	a.mu.Unlock()
}
