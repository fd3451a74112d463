package catalog

import (
	"context"
	"sync"

	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/model"
)

type OpType int

const (
	ScanApps OpType = iota
	CancelScan
)

type Request struct {
	Op   OpType
	Dirs []string
	Gen  int64 // Generation counter to track stale requests
}

type Response struct {
	Op        OpType
	Items     []model.Item
	Err       error
	Gen       int64
	Cancelled bool
}

// Scanner runs catalog scans off the UI goroutine. A new scan cancels the
// one in flight.
type Scanner struct {
	RequestChan  chan Request
	ResponseChan chan Response

	cancelMu   sync.Mutex
	cancelFunc context.CancelFunc
}

func NewScanner() *Scanner {
	return &Scanner{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// Start serves requests until RequestChan is closed.
func (s *Scanner) Start() {
	for req := range s.RequestChan {
		debug.Log(debug.CATALOG, "Request: op=%d dirs=%d gen=%d", req.Op, len(req.Dirs), req.Gen)

		s.cancelMu.Lock()
		if s.cancelFunc != nil {
			s.cancelFunc()
			s.cancelFunc = nil
		}
		if req.Op == CancelScan {
			s.cancelMu.Unlock()
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelFunc = cancel
		s.cancelMu.Unlock()

		go func(ctx context.Context, cancel context.CancelFunc, req Request) {
			defer cancel()
			items, err := Scan(ctx, req.Dirs)
			resp := Response{Op: ScanApps, Items: items, Err: err, Gen: req.Gen}
			if ctx.Err() != nil {
				resp.Cancelled = true
				resp.Err = nil
			}
			debug.Log(debug.CATALOG, "Scan response: items=%d gen=%d cancelled=%v", len(items), req.Gen, resp.Cancelled)
			s.ResponseChan <- resp
		}(ctx, cancel, req)
	}
}
