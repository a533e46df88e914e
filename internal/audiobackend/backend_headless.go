//go:build headless

package audiobackend

type OtoPlayer struct {
	started bool
	source  Source
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) SetupPlayer(src Source) {
	op.source = src
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func (op *OtoPlayer) Start() { op.started = true }

func (op *OtoPlayer) Stop() { op.started = false }

func (op *OtoPlayer) Close() { op.started = false }

func (op *OtoPlayer) IsStarted() bool { return op.started }
