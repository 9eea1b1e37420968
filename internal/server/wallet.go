package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetWallet(c *gin.Context) {
	wallet, err := s.walletSvc.EnsureWallet(c.Request.Context(), ownerID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

type depositRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

func (s *Server) DepositWallet(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	txn, err := s.walletSvc.Deposit(c.Request.Context(), ownerID(c), req.Amount, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (s *Server) ListWalletTransactions(c *gin.Context) {
	wallet, err := s.walletSvc.EnsureWallet(c.Request.Context(), ownerID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	txns, err := s.walletSvc.ListTransactions(c.Request.Context(), wallet.ID, intQuery(c, "limit", 50))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet":       wallet,
		"transactions": txns,
	})
}
