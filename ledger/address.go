package ledger

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Identity is an opaque, already-verified caller identity. The
// authentication layer in front of the API is responsible for proving that
// a request really comes from this wallet; the ledger never checks
// signatures itself.
type Identity = solana.PublicKey

// LedgerID anchors all address derivation. Any client that knows it can
// recompute every poll and vote address offline.
var LedgerID = solana.MustPublicKeyFromBase58("65sD6MWQPZieeMfBrcbe2mgHpRkxosobzKgTCmnbqQqi")

const (
	pollSeed = "poll"
	voteSeed = "vote"
)

func pollIDBytes(pollID uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, pollID)
	return b
}

// DerivePollAddress returns the storage address of poll pollID together
// with the derivation salt that makes the address valid.
func DerivePollAddress(pollID uint64) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte(pollSeed),
		pollIDBytes(pollID),
	}
	return solana.FindProgramAddress(seeds, LedgerID)
}

// DeriveVoteAddress returns the storage address of the vote record for
// (pollID, voter). Exactly-once creation at this address is the entire
// double-vote guard.
func DeriveVoteAddress(pollID uint64, voter Identity) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte(voteSeed),
		pollIDBytes(pollID),
		voter.Bytes(),
	}
	return solana.FindProgramAddress(seeds, LedgerID)
}
