package signalhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signalrelaygo/internal/services/signaling"
)

type Handler struct {
	svc signaling.ISignalingService
}

func New(svc signaling.ISignalingService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/offer", h.offer)
	r.POST("/answer", h.answer)
	r.POST("/ice-candidate", h.iceCandidate)
	r.GET("/messages", h.messages)
	r.GET("/status", h.status)
}

// @Summary		Submit an offer
// @Description	Queues a WebRTC session offer for every other peer in the room.
// @Tags			Signaling
// @Param			body	body		SubmitSDPBody	true	"Offer payload"
// @Success		200		{object}	SubmitResponse
// @Failure		400		{object}	ErrorResponse
// @Router			/offer [post]
func (h *Handler) offer(ginCtx *gin.Context) {
	var body SubmitSDPBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	forwarded, err := h.svc.SubmitOffer(ginCtx.Request.Context(), body.RoomID, body.PeerID, body.SDP)
	if err != nil {
		h.fail(ginCtx, err)
		return
	}
	ginCtx.JSON(http.StatusOK, &SubmitResponse{
		Success:     true,
		Message:     "Offer received and forwarded",
		ForwardedTo: forwarded,
	})
}

// @Summary		Submit an answer
// @Description	Queues a WebRTC session answer for every other peer in the room.
// @Tags			Signaling
// @Param			body	body		SubmitSDPBody	true	"Answer payload"
// @Success		200		{object}	SubmitResponse
// @Failure		400		{object}	ErrorResponse
// @Router			/answer [post]
func (h *Handler) answer(ginCtx *gin.Context) {
	var body SubmitSDPBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	forwarded, err := h.svc.SubmitAnswer(ginCtx.Request.Context(), body.RoomID, body.PeerID, body.SDP)
	if err != nil {
		h.fail(ginCtx, err)
		return
	}
	ginCtx.JSON(http.StatusOK, &SubmitResponse{
		Success:     true,
		Message:     "Answer received and forwarded",
		ForwardedTo: forwarded,
	})
}

// @Summary		Submit an ICE candidate
// @Description	Queues an ICE candidate for every other peer in the room. sdpMid and sdpMLineIndex are relayed verbatim.
// @Tags			Signaling
// @Param			body	body		SubmitCandidateBody	true	"Candidate payload"
// @Success		200		{object}	SubmitResponse
// @Failure		400		{object}	ErrorResponse
// @Router			/ice-candidate [post]
func (h *Handler) iceCandidate(ginCtx *gin.Context) {
	var body SubmitCandidateBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	forwarded, err := h.svc.SubmitICECandidate(ginCtx.Request.Context(),
		body.RoomID, body.PeerID, body.Candidate, body.SdpMid, body.SdpMLineIndex)
	if err != nil {
		h.fail(ginCtx, err)
		return
	}
	ginCtx.JSON(http.StatusOK, &SubmitResponse{
		Success:     true,
		Message:     "ICE candidate received and forwarded",
		ForwardedTo: forwarded,
	})
}

// @Summary		Poll for messages
// @Description	Returns and clears every message queued for this peer, oldest first.
// @Tags			Signaling
// @Param			roomId	query		string	true	"Room ID"
// @Param			peerId	query		string	false	"Peer ID"	default(unknown)
// @Success		200		{array}		signaling.MessageDTO
// @Failure		400		{object}	ErrorResponse
// @Router			/messages [get]
func (h *Handler) messages(ginCtx *gin.Context) {
	var q PollQuery
	if err := ginCtx.ShouldBindQuery(&q); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	msgs, err := h.svc.Poll(ginCtx.Request.Context(), q.RoomID, q.PeerID)
	if err != nil {
		h.fail(ginCtx, err)
		return
	}
	ginCtx.JSON(http.StatusOK, msgs)
}

// @Summary		Server status
// @Description	Aggregate room/peer/message counts.
// @Tags			Signaling
// @Success		200	{object}	signaling.StatusDTO
// @Router			/status [get]
func (h *Handler) status(ginCtx *gin.Context) {
	ginCtx.JSON(http.StatusOK, h.svc.Status(ginCtx.Request.Context()))
}

// fail maps service errors to HTTP status codes. Validation sentinels are
// the caller's fault; anything else is a 500.
func (h *Handler) fail(ginCtx *gin.Context, err error) {
	switch {
	case errors.Is(err, signaling.ErrMissingSDP),
		errors.Is(err, signaling.ErrMissingCandidate),
		errors.Is(err, signaling.ErrMissingRoomID):
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
	default:
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
	}
}
