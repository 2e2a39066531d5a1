// Package orchestrator wires the pipeline stages together: transcription to
// segment timelines, timelines to segment units, units to final videos.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/Ahmiconnect/ahmi/assembler"
	"github.com/Ahmiconnect/ahmi/clients"
	"github.com/Ahmiconnect/ahmi/composer"
	cfg "github.com/Ahmiconnect/ahmi/config"
	"github.com/Ahmiconnect/ahmi/media"
	"github.com/Ahmiconnect/ahmi/namer"
	"github.com/Ahmiconnect/ahmi/timeline"
)

type Pipeline struct {
	cfg   *cfg.Root
	vocab *cfg.Vocabulary
	http  *clients.HTTP
	eng   media.Engine
	nm    *namer.Namer
	log   *logrus.Logger
	runID string
}

func NewPipeline(c *cfg.Root, vocab *cfg.Vocabulary, eng media.Engine, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:   c,
		vocab: vocab,
		http:  clients.NewHTTP(),
		eng:   eng,
		nm:    namer.New(vocab.Keywords),
		log:   log,
		runID: ulid.Make().String(),
	}
}

// Transcribe locates keyword mentions in every source recording and
// persists each recording's segment timeline. Per-recording failures are
// logged and skipped; only environment problems abort.
func (p *Pipeline) Transcribe(ctx context.Context) error {
	recordings, err := p.listRecordings()
	if err != nil {
		return err
	}
	p.log.Infof("found %d recordings to process", len(recordings))

	for _, rec := range recordings {
		id := recordingID(rec)
		l := p.log.WithFields(logrus.Fields{"run": p.runID, "recording": id})

		l.Infof("transcribing %s", rec)
		resp, err := p.http.Transcribe(ctx, p.cfg.ASR.URL, rec)
		if err != nil {
			l.WithError(err).Error("transcription failed, skipping recording")
			continue
		}

		var words []timeline.RawWord
		for _, w := range resp.Words() {
			words = append(words, timeline.RawWord{Text: w.Word, Start: w.Start})
		}
		events := timeline.FilterEvents(words, p.vocab.Keywords)

		segs, err := timeline.DeriveSegments(events, resp.Duration())
		if err != nil {
			l.WithError(err).Error("segment derivation failed, skipping recording")
			continue
		}

		path, err := timeline.Save(p.cfg.Paths.Transcriptions, id, segs)
		if err != nil {
			l.WithError(err).Error("could not persist timeline")
			continue
		}
		l.Infof("saved %d segments to %s", len(segs), path)
	}
	p.log.Info("audio processing completed")
	return nil
}

// Assemble builds one exact-duration segment unit per timeline segment.
// Recordings run on the worker pool; segments within one recording stay
// sequential. Segment-level failures leave a gap and do not spread.
func (p *Pipeline) Assemble(ctx context.Context) error {
	if err := requireDir(p.cfg.Paths.Clips, "clips"); err != nil {
		return err
	}
	docs, err := timeline.List(p.cfg.Paths.Transcriptions)
	if err != nil {
		return fmt.Errorf("transcriptions directory: %w", err)
	}
	if len(docs) == 0 {
		p.log.Info("no segment timelines found, nothing to assemble")
		return nil
	}
	if err := os.MkdirAll(p.cfg.Paths.Segments, 0o755); err != nil {
		return err
	}

	p.forEach(docs, func(doc string) {
		p.assembleRecording(ctx, doc)
	})
	p.log.Info("segment assembly completed")
	return nil
}

func (p *Pipeline) assembleRecording(ctx context.Context, doc string) {
	id := timeline.RecordingID(doc)
	l := p.log.WithFields(logrus.Fields{"run": p.runID, "recording": id})

	segs, err := timeline.Load(doc)
	if err != nil {
		l.WithError(err).Error("unreadable timeline, skipping recording")
		return
	}
	if len(segs) == 0 {
		l.Info("empty timeline, skipping recording")
		return
	}

	for i, seg := range segs {
		sl := l.WithFields(logrus.Fields{"segment": i, "keyword": seg.Keyword})

		clips, err := assembler.SelectClips(p.cfg.Paths.Clips, seg.Keyword)
		if err != nil {
			sl.WithError(err).Warn("skipping segment")
			continue
		}
		out := filepath.Join(p.cfg.Paths.Segments, assembler.UnitName(id, i, seg.Keyword))
		sl.Infof("creating segment (%.2fs)", seg.Duration())
		if err := assembler.Assemble(ctx, p.eng, clips, seg.Duration(), out); err != nil {
			sl.WithError(err).Warn("skipping segment")
			continue
		}
	}
}

// Compose groups the produced segment units per recording and builds each
// recording's final video. Group-level failures are logged and skipped.
func (p *Pipeline) Compose(ctx context.Context) error {
	if err := requireDir(p.cfg.Paths.Audio, "audio"); err != nil {
		return err
	}
	if err := requireFile(p.cfg.Paths.Music, "music"); err != nil {
		return err
	}
	units, err := composer.ScanUnits(p.cfg.Paths.Segments)
	if err != nil {
		return fmt.Errorf("segments directory: %w", err)
	}
	if len(units) == 0 {
		p.log.Info("no segment units found, nothing to compose")
		return nil
	}
	if err := os.MkdirAll(p.cfg.Paths.Output, 0o755); err != nil {
		return err
	}

	byRecording := map[string][]composer.SegmentUnit{}
	for _, u := range units {
		byRecording[u.RecordingID] = append(byRecording[u.RecordingID], u)
	}
	ids := make([]string, 0, len(byRecording))
	for id := range byRecording {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	comp := composer.New(p.eng, p.cfg.Video, p.log)
	p.forEach(ids, func(id string) {
		p.composeRecording(ctx, comp, id, byRecording[id])
	})
	p.log.Info("all videos processed")
	return nil
}

func (p *Pipeline) composeRecording(ctx context.Context, comp *composer.Composer, id string, units []composer.SegmentUnit) {
	l := p.log.WithFields(logrus.Fields{"run": p.runID, "recording": id})

	// ordering and duplicate-index checks stay per recording so one
	// corrupt group never blocks its siblings
	groups, err := composer.Group(units)
	if err != nil {
		l.WithError(err).Error("skipping recording")
		return
	}
	group := composer.RecordingGroup{RecordingID: id, Units: groups[id]}

	group.NarrationPath, err = composer.LocateNarration(p.cfg.Paths.Audio, id)
	if err != nil {
		l.WithError(err).Error("skipping recording")
		return
	}

	keywords := make([]string, 0, len(group.Units))
	for _, u := range group.Units {
		keywords = append(keywords, u.Keyword)
	}
	title := p.nm.CreateTitle(keywords, true)
	outPath := filepath.Join(p.cfg.Paths.Output, namer.SafeFileName(title)+".mp4")

	l.Infof("composing %d segments", len(group.Units))
	art, err := comp.Compose(ctx, group, p.cfg.Paths.Music, title, outPath)
	if err != nil {
		l.WithError(err).Error("composition failed, skipping recording")
		return
	}
	l.Infof("created final video %s (title %q)", art.Path, art.Title)
}

// Run executes the three stages in order.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Transcribe(ctx); err != nil {
		return err
	}
	if err := p.Assemble(ctx); err != nil {
		return err
	}
	return p.Compose(ctx)
}

// forEach fans items out over a bounded worker pool. Each external engine
// invocation is heavy, so the bound tracks configured capacity.
func (p *Pipeline) forEach(items []string, fn func(string)) {
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(it string) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(it)
		}(it)
	}
	wg.Wait()
}
