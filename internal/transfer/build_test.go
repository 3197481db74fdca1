package transfer

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/vietddude/tokensend/internal/core/domain"
)

func TestBuildTx_RecipientEncodedInCallData(t *testing.T) {
	tx, err := BuildTx(reqFor(weth, "2"), sender, 11155111)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// address word is left-padded to 32 bytes
	for _, b := range tx.Data[4:16] {
		if b != 0 {
			t.Fatalf("address word not zero padded: %x", tx.Data[4:36])
		}
	}
	if got := strings.Repeat("22", 20); hex.EncodeToString(tx.Data[16:36]) != got {
		t.Errorf("unexpected recipient bytes %x", tx.Data[16:36])
	}
}

func TestBuildTx_RejectsBadRecipient(t *testing.T) {
	for _, r := range []string{"0x123", "2222222222222222222222222222222222222222", "0xZZ22222222222222222222222222222222222222"} {
		req := reqFor(eth, "1")
		req.Recipient = r
		if _, err := BuildTx(req, sender, 1); !errors.Is(err, ErrInvalidRecipient) {
			t.Errorf("recipient %q: expected ErrInvalidRecipient, got %v", r, err)
		}
	}
}

func TestBuildTx_TrimsRecipient(t *testing.T) {
	req := reqFor(eth, "1")
	req.Recipient = "  " + recipient + " "
	tx, err := BuildTx(req, sender, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.To != recipient {
		t.Errorf("expected trimmed recipient, got %q", tx.To)
	}
}

func reqFor(asset domain.AssetDescriptor, amount string) domain.TransferRequest {
	return domain.TransferRequest{Recipient: recipient, Amount: amount, Asset: asset}
}
