package workerproc

import (
	"context"
	"errors"
	"testing"
)

type fakeProcessor struct {
	rfqIDs []string
	err    error
}

func (p *fakeProcessor) Process(ctx context.Context, rfqID string) error {
	p.rfqIDs = append(p.rfqIDs, rfqID)
	return p.err
}

func TestParseMessage(t *testing.T) {
	var emptyErr ErrEmptyBody
	if _, _, err := ParseMessage("   "); !errors.As(err, &emptyErr) {
		t.Fatalf("empty body err = %v", err)
	}

	var decodeErr ErrDecode
	if _, _, err := ParseMessage("{not json"); !errors.As(err, &decodeErr) {
		t.Fatalf("decode err = %v", err)
	}

	var missingErr ErrMissingRFQID
	_, _, err := ParseMessage(`{"requestId":"req-1","version":1}`)
	if !errors.As(err, &missingErr) {
		t.Fatalf("missing id err = %v", err)
	}
	if missingErr.RequestID != "req-1" {
		t.Fatalf("requestID = %q", missingErr.RequestID)
	}

	msg, meta, err := ParseMessage(`{"rfqId":"rfq-1","requestId":"req-2","version":1}`)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.RFQID != "rfq-1" || msg.RequestID != "req-2" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if meta.BodyLen == 0 || meta.BodySHA == "" {
		t.Fatalf("meta not computed: %+v", meta)
	}
}

func TestHandleMessageProcesses(t *testing.T) {
	proc := &fakeProcessor{}
	body := `{"rfqId":"rfq-1","requestId":"req-1","version":1}`

	if err := HandleMessage(context.Background(), proc, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.rfqIDs) != 1 || proc.rfqIDs[0] != "rfq-1" {
		t.Fatalf("processed = %v", proc.rfqIDs)
	}
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	body := `{"rfqId":"rfq-1","requestId":"req-1","version":1}`

	err := HandleMessage(context.Background(), proc, body)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("err = %v, want ErrProcess", err)
	}
	if procErr.RFQID != "rfq-1" || procErr.RequestID != "req-1" {
		t.Fatalf("unexpected ErrProcess: %+v", procErr)
	}
}

func TestHandleMessageUsesParsedContext(t *testing.T) {
	proc := &fakeProcessor{}
	msg, _, err := ParseMessage(`{"rfqId":"rfq-ctx","requestId":"req-1","version":1}`)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}

	ctx := WithParsedMessage(context.Background(), msg)
	if err := HandleMessage(ctx, proc, "ignored body"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.rfqIDs) != 1 || proc.rfqIDs[0] != "rfq-ctx" {
		t.Fatalf("processed = %v", proc.rfqIDs)
	}
}
