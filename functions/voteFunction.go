package functions

import (
	"net/http"

	"voting-ledger/ledger"
	"voting-ledger/models"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

func CastVote(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid request: " + err.Error(),
		})
		return
	}

	voter, err := solana.PublicKeyFromBase58(req.VoterWallet)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid voter wallet address",
		})
		return
	}

	record, err := lgr.Vote(pollID, *req.CandidateIndex, voter)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	voteAddr, _, err := ledger.DeriveVoteAddress(pollID, voter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "Failed to derive vote address",
		})
		return
	}

	mirrorVote(record, voteAddr.String())

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.CastVoteResponse{
			PollID:         record.PollID,
			CandidateIndex: record.CandidateIndex,
			VoteAddress:    voteAddr.String(),
		},
	})
}

func GetUserVotes(c *gin.Context) {
	var req models.UserVotesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Message: "Invalid request: walletAddress is required",
		})
		return
	}

	if mirror == nil {
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Success: false,
			Error:   "Vote history requires the database mirror",
		})
		return
	}

	userVotes, err := listMirrorVotes(req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Message: "DB error",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    map[string]interface{}{"userVotes": userVotes},
	})
}
