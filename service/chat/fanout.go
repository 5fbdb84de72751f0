package chat

import (
	"context"
	"sync"
	"time"

	"GlobeTalk/logger"
	"GlobeTalk/service/directory"
	"GlobeTalk/service/storage"
	"GlobeTalk/service/translate"
)

type FanoutConfig struct {
	Workers          int // max concurrent recipient deliveries per message
	DirectoryTimeout time.Duration
	TranslateTimeout time.Duration
	StoreTimeout     time.Duration
}

func (c *FanoutConfig) norm() {
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.DirectoryTimeout <= 0 {
		c.DirectoryTimeout = 2 * time.Second
	}
	if c.TranslateTimeout <= 0 {
		c.TranslateTimeout = 3 * time.Second
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
}

// Inbound is one authored message entering the fan-out engine.
type Inbound struct {
	ChatID  string
	Members []string
	Content string

	SenderID       string
	SenderName     string
	SenderLanguage string
}

// Fanout turns one authored message into N independent per-recipient
// deliveries, each in the recipient's preferred language, while the canonical
// record is persisted once with the original content.
type Fanout struct {
	conf       FanoutConfig
	reg        *Registry
	dir        directory.Directory
	store      storage.MessageStore
	translator translate.Translator
}

func NewFanout(conf FanoutConfig, reg *Registry, dir directory.Directory, store storage.MessageStore, tr translate.Translator) *Fanout {
	conf.norm()
	return &Fanout{conf: conf, reg: reg, dir: dir, store: store, translator: tr}
}

// Dispatch persists the canonical record and delivers to each live, non-sender
// member. Persistence is initiated first and independently, so a slow or stuck
// recipient cannot delay the durability attempt; a store failure is logged and
// never aborts delivery.
func (f *Fanout) Dispatch(ctx context.Context, in Inbound) {
	persisted := make(chan struct{})
	go func() {
		defer close(persisted)
		f.persist(in)
	}()

	members, err := f.resolveMembers(ctx, in.Members)
	if err != nil {
		// Directory down: no language/name data, no deliveries. The record
		// above still lands, so history stays intact.
		logger.Errorf("[fanout] resolve members chat=%s: %v", in.ChatID, err)
		<-persisted
		return
	}

	sem := make(chan struct{}, f.conf.Workers)
	var wg sync.WaitGroup
	for _, m := range members {
		if m.ID == in.SenderID {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(m directory.Member) {
			defer wg.Done()
			defer func() { <-sem }()
			f.deliver(ctx, in, m)
		}(m)
	}
	wg.Wait()
	<-persisted
}

func (f *Fanout) persist(in Inbound) {
	ctx, cancel := context.WithTimeout(context.Background(), f.conf.StoreTimeout)
	defer cancel()
	rec := storage.MessageRecord{
		Content:   in.Content,
		Sender:    in.SenderID,
		Chat:      in.ChatID,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.Store(ctx, rec); err != nil {
		logger.Errorf("[fanout] store message chat=%s sender=%s: %v", in.ChatID, in.SenderID, err)
	}
}

func (f *Fanout) resolveMembers(ctx context.Context, ids []string) ([]directory.Member, error) {
	dctx, cancel := context.WithTimeout(ctx, f.conf.DirectoryTimeout)
	defer cancel()
	return f.dir.Members(dctx, ids)
}

// deliver runs one recipient's isolated path: translate if the languages
// differ, then push the envelope and alert to the live handle. Any failure
// here stays on this path.
func (f *Fanout) deliver(ctx context.Context, in Inbound, m directory.Member) {
	content := in.Content
	if f.translator != nil && m.Language != "" && m.Language != in.SenderLanguage {
		tctx, cancel := context.WithTimeout(ctx, f.conf.TranslateTimeout)
		translated, err := f.translator.Translate(tctx, in.Content, m.Language)
		cancel()
		if err != nil {
			// Degraded but available: the recipient gets the original text.
			logger.Warnf("[fanout] translate chat=%s to=%s lang=%s: %v", in.ChatID, m.ID, m.Language, err)
		} else {
			content = translated
		}
	}

	c, ok := f.reg.Lookup(m.ID)
	if !ok {
		// Offline member: no queued delivery, the persisted record covers it.
		return
	}
	c.Push(BuildDelivery(in.ChatID, MessageSender{ID: in.SenderID, Name: in.SenderName}, content))
	c.Push(MarshalFrame(EventNewMessageAlert, MessageAlert{ChatID: in.ChatID}))
}
