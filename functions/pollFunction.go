package functions

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"

	"voting-ledger/ledger"
	"voting-ledger/models"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

// Package state wired once at startup.
var (
	lgr    *ledger.Ledger
	mirror *sql.DB
)

// Init wires the handlers to the ledger and the optional Postgres
// mirror. Pass a nil db to run without the list endpoints.
func Init(l *ledger.Ledger, db *sql.DB) {
	lgr = l
	mirror = db
}

// generatePollID derives a poll id from the poll contents so clients
// that do not pick their own ids still get a stable one.
func generatePollID(title string, candidates []string, creator solana.PublicKey) uint64 {
	hasher := sha256.New()
	hasher.Write([]byte(title))
	for _, name := range candidates {
		hasher.Write([]byte(name))
	}
	hasher.Write(creator.Bytes())

	hash := hasher.Sum(nil)
	return binary.LittleEndian.Uint64(hash[:8])
}

func CreatePoll(c *gin.Context) {
	var req models.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid request: " + err.Error(),
		})
		return
	}

	creator, err := solana.PublicKeyFromBase58(req.CreatorWallet)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid creator wallet address",
		})
		return
	}

	pollID := req.PollID
	if pollID == 0 {
		pollID = generatePollID(req.Title, req.Candidates, creator)
	}

	poll, err := lgr.CreatePoll(pollID, req.Title, req.Candidates, creator)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	pollAddr, _, err := ledger.DerivePollAddress(pollID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "Failed to derive poll address",
		})
		return
	}

	mirrorPoll(poll, pollAddr.String())

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.CreatePollResponse{
			PollID:      poll.PollID,
			PollAddress: pollAddr.String(),
			Title:       poll.Title,
			Candidates:  req.Candidates,
		},
	})
}

func ClosePoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req models.ClosePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid request: " + err.Error(),
		})
		return
	}

	caller, err := solana.PublicKeyFromBase58(req.CallerWallet)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid caller wallet address",
		})
		return
	}

	if err := lgr.ClosePoll(pollID, caller); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Poll closed",
	})
}

// GetPoll reads the poll straight from the ledger, so tallies are always
// the committed ones.
func GetPoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	poll, err := lgr.GetPoll(pollID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    poll,
	})
}

func ListPolls(c *gin.Context) {
	if mirror == nil {
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Success: false,
			Error:   "Poll listing requires the database mirror",
		})
		return
	}

	polls, err := listMirrorPolls()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "Failed to retrieve polls",
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    polls,
	})
}

func pollIDParam(c *gin.Context) (uint64, bool) {
	pollID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid poll id",
		})
		return 0, false
	}
	return pollID, true
}

func respondLedgerError(c *gin.Context, err error) {
	var le *ledger.Error
	if !errors.As(err, &le) {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "Internal error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch le.Kind {
	case ledger.KindValidation:
		status = http.StatusBadRequest
	case ledger.KindState:
		if le == ledger.ErrPollNotFound || le == ledger.ErrVoteNotFound {
			status = http.StatusNotFound
		} else {
			status = http.StatusConflict
		}
	case ledger.KindAuthorization:
		status = http.StatusForbidden
	case ledger.KindConflict:
		status = http.StatusConflict
	}

	c.JSON(status, models.APIResponse{
		Success: false,
		Error:   le.Message,
		Code:    le.Code,
	})
}
