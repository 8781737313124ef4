package Screens

import (
	"sync"
	"time"

	"Prapatti/Apis"
	"Prapatti/Notifications"
	"Prapatti/Session"
)

// Workspace is everything one browser session has on screen: one controller
// per resource sharing one query cache, plus its toasts.
type Workspace struct {
	Session *Session.Session
	Client  *Apis.Client
	Cache   *Apis.QueryCache
	Toasts  *Notifications.Board

	Companies    *CompanyScreen
	Orders       *OrderScreen
	ReturnOrders *ReturnOrderScreen
	TapeRolls    *TapeRollScreen
	KraftMailers *KraftMailerScreen
	OrderLayout  *OrderLayout

	unsubscribe func()
}

func NewWorkspace(client *Apis.Client, session *Session.Session, toastTimeout time.Duration) *Workspace {
	client = client.WithTokens(session)
	cache := Apis.NewQueryCache()
	w := &Workspace{
		Session:      session,
		Client:       client,
		Cache:        cache,
		Toasts:       Notifications.NewBoard(toastTimeout),
		Companies:    NewCompanyScreen(client, cache),
		Orders:       NewOrderScreen(client, cache),
		ReturnOrders: NewReturnOrderScreen(client, cache),
		TapeRolls:    NewTapeRollScreen(client, cache),
		KraftMailers: NewKraftMailerScreen(client, cache),
		OrderLayout:  NewOrderLayout(),
	}
	w.unsubscribe = session.Subscribe(func(Session.Event) {
		w.Reset()
	})
	return w
}

// Reset drops cached lists and screen state. Toasts survive so a logout or
// expiry message still reaches the next page.
func (w *Workspace) Reset() {
	w.Cache.Reset()
	w.Companies.Reset()
	w.Orders.Reset()
	w.ReturnOrders.Reset()
	w.TapeRolls.Reset()
	w.KraftMailers.Reset()
	w.OrderLayout.Reset()
}

func (w *Workspace) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// Workspaces keeps one Workspace per live session id.
type Workspaces struct {
	client       *Apis.Client
	toastTimeout time.Duration

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaces(client *Apis.Client, toastTimeout time.Duration) *Workspaces {
	return &Workspaces{client: client, toastTimeout: toastTimeout, items: map[string]*Workspace{}}
}

// For returns the workspace bound to s, building it on first use or when s
// replaced an evicted session with the same id.
func (ws *Workspaces) For(s *Session.Session) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.items[s.ID]; ok && w.Session == s {
		return w
	} else if ok {
		w.Close()
	}
	w := NewWorkspace(ws.client, s, ws.toastTimeout)
	ws.items[s.ID] = w
	return w
}

func (ws *Workspaces) Evict(ids ...string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, id := range ids {
		if w, ok := ws.items[id]; ok {
			w.Close()
			delete(ws.items, id)
		}
	}
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.items)
}
