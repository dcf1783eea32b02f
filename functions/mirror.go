package functions

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"voting-ledger/ledger"
	"voting-ledger/models"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// The Postgres mirror exists so list-style queries do not need to
// enumerate derived addresses. It is written after the ledger commit and
// read only by the list endpoints; a mirror failure never fails the
// request, and nothing here feeds back into ledger decisions.

// EnsureMirrorSchema creates the mirror tables. Safe to call repeatedly.
func EnsureMirrorSchema(db *sql.DB) error {
	_, err := db.Exec(mirrorSchema)
	if err != nil {
		return fmt.Errorf("failed to create mirror schema: %w", err)
	}
	return nil
}

// Poll ids are full-range uint64, which database/sql cannot pass as a
// signed integer, so the mirror keys them as text.
const mirrorSchema = `
CREATE TABLE IF NOT EXISTS polls (
    poll_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    candidates TEXT[] NOT NULL,
    admin TEXT NOT NULL,
    poll_address TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
    poll_id TEXT NOT NULL,
    voter_address TEXT NOT NULL,
    candidate_index SMALLINT NOT NULL,
    vote_address TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, voter_address)
);
`

func mirrorPoll(poll *ledger.Poll, pollAddress string) {
	if mirror == nil {
		return
	}

	names := make([]string, len(poll.Candidates))
	for i, cand := range poll.Candidates {
		names[i] = cand.Name
	}

	query := `
		INSERT INTO polls (poll_id, title, candidates, admin, poll_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (poll_id) DO NOTHING
	`
	_, err := mirror.Exec(query, strconv.FormatUint(poll.PollID, 10), poll.Title, pq.Array(names),
		poll.Admin.String(), pollAddress, time.Now().UTC())
	if err != nil {
		log.WithError(err).Error("Failed to save poll to database")
	}
}

func mirrorVote(record *ledger.VoteRecord, voteAddress string) {
	if mirror == nil {
		return
	}

	query := `
		INSERT INTO votes (poll_id, voter_address, candidate_index, vote_address, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (poll_id, voter_address) DO NOTHING
	`
	_, err := mirror.Exec(query, strconv.FormatUint(record.PollID, 10), record.Voter.String(),
		record.CandidateIndex, voteAddress, time.Now().UTC())
	if err != nil {
		log.WithError(err).Error("Failed to save vote to database")
	}
}

func listMirrorPolls() ([]models.MirrorPoll, error) {
	rows, err := mirror.Query(`SELECT poll_id, title, candidates, admin, poll_address, created_at FROM polls ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var polls []models.MirrorPoll
	for rows.Next() {
		var poll models.MirrorPoll
		var candidates []string

		if err := rows.Scan(
			&poll.PollID,
			&poll.Title,
			pq.Array(&candidates),
			&poll.Admin,
			&poll.PollAddress,
			&poll.CreatedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan poll row")
			continue
		}

		poll.Candidates = candidates
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return polls, nil
}

func listMirrorVotes(walletAddress string) ([]models.UserVote, error) {
	rows, err := mirror.Query(`SELECT poll_id, candidate_index FROM votes WHERE voter_address = $1`, walletAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userVotes []models.UserVote
	for rows.Next() {
		var vote models.UserVote
		if err := rows.Scan(&vote.PollID, &vote.CandidateIndex); err != nil {
			return nil, err
		}
		userVotes = append(userVotes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return userVotes, nil
}
