package bootloader

import (
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-colorhug/dfu"
)

func TestBlockError(t *testing.T) {
	cause := &dfu.Error{Op: "erase", Addr: 0x0400, Status: dfu.StatusErrErase}
	err := &BlockError{Addr: 0x0400, Attempts: 3, Err: cause}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "block 0x0400") {
		t.Errorf("error message should contain block address, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "3 attempt") {
		t.Errorf("error message should contain attempts, got: %s", errMsg)
	}

	var de *dfu.Error
	if !errors.As(err, &de) || de != cause {
		t.Error("BlockError should unwrap to the dfu error")
	}
}

func TestVerificationError(t *testing.T) {
	err := &VerificationError{
		Addr:     0x0123,
		Expected: 0xAB,
		Actual:   0xCD,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "verification failed") {
		t.Errorf("error message should contain 'verification failed', got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x0123") {
		t.Errorf("error message should contain address, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0xAB") || !strings.Contains(errMsg, "0xCD") {
		t.Errorf("error message should contain both bytes, got: %s", errMsg)
	}
}
