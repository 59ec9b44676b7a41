package download

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/http"
	ioutils "github.com/handiism/ugtabs/internal/io"
	"github.com/handiism/ugtabs/internal/model"
	"github.com/handiism/ugtabs/internal/ultimateguitar"
)

// Diagnostic dump file names, written to Settings.DiagnosticsDir.
const (
	PageDumpFile     = "debug_page_content.html"
	RejectedBodyFile = "debug_download_response.html"
	RejectedHeadFile = "debug_download_headers.txt"
)

// UnifiedIDHeader carries the site's idea of the logged-in user; "0" means anonymous.
const UnifiedIDHeader = "x-ug-unified-id"

// ErrAnonymousSession is the cause of AnonymousSession failures.
var ErrAnonymousSession = errors.New("not authenticated (user_id: 0): cookies are invalid or expired")

// RejectedError is the cause of DownloadRejected failures: the download
// endpoint answered 2xx with an HTML page instead of the tab file.
type RejectedError struct {
	ContentType string

	// UnifiedID is the x-ug-unified-id response header, empty when absent.
	UnifiedID string
}

func (e *RejectedError) Error() string {
	unified := e.UnifiedID
	if unified == "" {
		unified = "not found"
	}
	return fmt.Sprintf("download rejected: server returned %q instead of a file (%s: %s)", e.ContentType, UnifiedIDHeader, unified)
}

// Manager coordinates tab downloads.
//
// A Manager processes tabs strictly one at a time: both requests of a tab
// complete before the next tab starts, and nothing is retried. One tab's
// failure never stops the batch.
type Manager struct {
	settings  *config.Settings
	client    *http.Client
	extractor ultimateguitar.Extractor
	pathCfg   *model.PathConfig
	logger    *zap.Logger
	batchID   string

	totalTabs      int32
	processedTabs  int32
	downloadedTabs int32
	receivedBytes  int64

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
//
// The extractor is selected by settings.Extractor. A nil logger discards logs.
func NewManager(settings *config.Settings, client *http.Client, logger *zap.Logger, onProgress func(ProgressEvent)) (*Manager, error) {
	extractor, err := ultimateguitar.NewExtractor(settings.Extractor)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	batchID := uuid.NewString()

	return &Manager{
		settings:   settings,
		client:     client,
		extractor:  extractor,
		pathCfg:    settings.ToPathConfig(),
		logger:     logger.Named("download").With(zap.String("batch_id", batchID)),
		batchID:    batchID,
		onProgress: onProgress,
	}, nil
}

// BatchID identifies this manager's run in logs and reports.
func (m *Manager) BatchID() string {
	return m.batchID
}

// Run downloads every URL in order and summarizes the outcomes.
//
// Run stops early only when ctx is canceled; the URLs not attempted are
// listed in Summary.Skipped.
func (m *Manager) Run(ctx context.Context, urls []string) *Summary {
	outcomes := m.FetchTabs(ctx, urls)
	summary := NewSummary(m.batchID, urls, outcomes)

	m.logger.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded()),
		zap.Int("failed", len(summary.Failures())),
		zap.Int("skipped", len(summary.Skipped)))

	return summary
}

// FetchTabs downloads each URL in order and returns one outcome per
// attempted URL, in input order.
func (m *Manager) FetchTabs(ctx context.Context, urls []string) []model.Outcome {
	atomic.StoreInt32(&m.totalTabs, int32(len(urls)))

	outcomes := make([]model.Outcome, 0, len(urls))
	for i, tabURL := range urls {
		if ctx.Err() != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Interrupted, %d tabs not attempted", len(urls)-i), Level: LevelWarning})
			break
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] %s", i+1, len(urls), tabURL), Level: LevelInfo})

		artifact, err := m.FetchTab(ctx, tabURL)
		outcomes = append(outcomes, model.Outcome{URL: tabURL, Artifact: artifact, Err: err})
		atomic.AddInt32(&m.processedTabs, 1)

		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Failed: %v", err), Level: LevelError})
			if hint := model.KindOf(err).Hint(); hint != "" {
				m.progress(ProgressEvent{Message: hint, Level: LevelWarning})
			}
			continue
		}

		atomic.AddInt32(&m.downloadedTabs, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%d bytes)", artifact.FileName, artifact.Size), Level: LevelSuccess})
	}

	return outcomes
}

// FetchTab downloads one tab.
//
// The steps are: fetch the tab page, extract its page state, check that the
// session is authenticated, resolve the download token, fetch the file,
// reject HTML answers and write the file to the output directory. Every
// failure is returned as a *model.FetchError whose Kind names the step.
func (m *Manager) FetchTab(ctx context.Context, tabURL string) (*model.TabArtifact, error) {
	logger := m.logger.With(zap.String("url", tabURL))

	m.progress(ProgressEvent{Message: "Fetching tab page", Level: LevelVerbose})
	page, err := m.client.Get(ctx, tabURL, http.PageOverlay())
	if err != nil {
		return nil, m.fail(logger, model.KindHTTPError, tabURL, err)
	}
	if err := page.Err(); err != nil {
		return nil, m.fail(logger, model.KindHTTPError, tabURL, err)
	}

	state, err := m.extractor.Extract(page.Text())
	if err != nil {
		m.dump(ctx, logger, PageDumpFile, page.Body)
		return nil, m.fail(logger, model.KindExtractionFailed, tabURL, err)
	}

	auth := ultimateguitar.Validate(state)
	if !auth.Authenticated {
		return nil, m.fail(logger, model.KindAnonymousSession, tabURL, ErrAnonymousSession)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Authenticated as %s", auth), Level: LevelVerbose})

	token, err := ultimateguitar.Resolve(state)
	if err != nil {
		return nil, m.fail(logger, model.KindTokenNotFound, tabURL, err)
	}

	downloadURL := ultimateguitar.DownloadURL(token)
	logger.Debug("resolved download token", zap.String("download_url", downloadURL), zap.Int64("user_id", auth.UserID))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s", downloadURL), Level: LevelVerbose})

	var lastWritten int64
	file, err := m.client.Download(ctx, downloadURL, http.DownloadOverlay(tabURL), func(written, _ int64) {
		atomic.AddInt64(&m.receivedBytes, written-lastWritten)
		lastWritten = written
	})
	if err != nil {
		return nil, m.fail(logger, model.KindHTTPError, tabURL, err)
	}
	if err := file.Err(); err != nil {
		return nil, m.fail(logger, model.KindHTTPError, tabURL, err)
	}

	if file.IsHTML() {
		m.dump(ctx, logger, RejectedBodyFile, file.Body)
		m.dump(ctx, logger, RejectedHeadFile, []byte(formatHeader(file)))
		rejected := &RejectedError{ContentType: file.ContentType(), UnifiedID: file.Header.Get(UnifiedIDHeader)}
		return nil, m.fail(logger, model.KindDownloadRejected, tabURL, rejected)
	}

	artifact := model.NewTabArtifact(tabURL, file.Header.Get("Content-Disposition"), file.Body, m.pathCfg)
	if err := ioutils.WriteFile(ctx, artifact.Path, artifact.Content); err != nil {
		return nil, m.fail(logger, model.KindIOError, tabURL, err)
	}
	artifact.Release()

	logger.Info("tab downloaded", zap.String("path", artifact.Path), zap.Int64("bytes", artifact.Size))
	return artifact, nil
}

// SessionStatus is the site's view of the session on the home page.
type SessionStatus struct {
	// UnifiedID is the x-ug-unified-id header, "0" when absent.
	UnifiedID string
}

// Authenticated reports whether the home page recognized a user.
func (s SessionStatus) Authenticated() bool {
	return s.UnifiedID != "" && s.UnifiedID != "0"
}

// CheckSession requests the home page and reads x-ug-unified-id.
func (m *Manager) CheckSession(ctx context.Context) (SessionStatus, error) {
	resp, err := m.client.Get(ctx, http.SiteRoot, http.HomeOverlay())
	if err != nil {
		return SessionStatus{}, err
	}
	if err := resp.Err(); err != nil {
		return SessionStatus{}, err
	}

	status := SessionStatus{UnifiedID: resp.Header.Get(UnifiedIDHeader)}
	if status.UnifiedID == "" {
		status.UnifiedID = "0"
	}
	m.logger.Info("session checked", zap.String("unified_id", status.UnifiedID))
	return status, nil
}

// GetProgress returns current batch progress.
func (m *Manager) GetProgress() (received int64, processed, downloaded, total int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.processedTabs),
		atomic.LoadInt32(&m.downloadedTabs),
		atomic.LoadInt32(&m.totalTabs)
}

func (m *Manager) fail(logger *zap.Logger, kind model.FailureKind, tabURL string, err error) error {
	logger.Warn("tab failed", zap.Stringer("kind", kind), zap.Error(err))
	return model.NewFetchError(kind, tabURL, err)
}

// dump writes a diagnostic file; failures are logged, never returned.
func (m *Manager) dump(ctx context.Context, logger *zap.Logger, name string, data []byte) {
	path, err := ioutils.DumpDiagnostic(ctx, m.settings.DiagnosticsDir, name, data)
	if err != nil {
		logger.Warn("diagnostic dump failed", zap.Error(err))
		return
	}
	logger.Info("diagnostic dump written", zap.String("path", path))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s for analysis", path), Level: LevelVerbose})
}

func formatHeader(resp *http.Response) string {
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", resp.URL, resp.StatusCode)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	return b.String()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
