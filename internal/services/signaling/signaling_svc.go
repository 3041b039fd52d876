package signaling

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"signalrelaygo/internal/registry"
)

// MessageDTO is the wire form of a queued message, as returned by Poll.
// Timestamp is epoch seconds. SdpMid/SdpMLineIndex are pointers so they are
// emitted (possibly as ""/0) for ICE candidates and omitted for offers and
// answers.
type MessageDTO struct {
	Type          string  `json:"type"`
	SDP           string  `json:"sdp,omitempty"`
	Candidate     string  `json:"candidate,omitempty"`
	SdpMid        *string `json:"sdpMid,omitempty"`
	SdpMLineIndex *int    `json:"sdpMLineIndex,omitempty"`
	RoomID        string  `json:"roomId"`
	PeerID        string  `json:"peerId"` // sender
	Timestamp     float64 `json:"timestamp"`
}

type StatusDTO struct {
	Status               string `json:"status"`
	Port                 uint16 `json:"port"`
	Rooms                int    `json:"rooms"`
	TotalPeers           int    `json:"totalPeers"`
	TotalPendingMessages int    `json:"totalPendingMessages"`
	Timestamp            string `json:"timestamp" example:"2025-07-27T16:05:05Z"`
}

// DefaultPeerID is substituted when a caller omits peerId.
const DefaultPeerID = "unknown"

var (
	ErrMissingSDP       = errors.New("missing required fields: sdp, roomId")
	ErrMissingCandidate = errors.New("missing required fields: candidate, roomId")
	ErrMissingRoomID    = errors.New("missing required parameter: roomId")
)

type ISignalingService interface {
	SubmitOffer(ctx context.Context, roomID, peerID, sdp string) (int, error)
	SubmitAnswer(ctx context.Context, roomID, peerID, sdp string) (int, error)
	SubmitICECandidate(ctx context.Context, roomID, peerID, candidate, sdpMid string, sdpMLineIndex int) (int, error)
	Poll(ctx context.Context, roomID, peerID string) ([]MessageDTO, error)
	Status(ctx context.Context) *StatusDTO
}

type signalingService struct {
	reg        *registry.Registry
	listenPort uint16
}

func NewSignalingService(reg *registry.Registry, listenPort uint16) ISignalingService {
	return &signalingService{
		reg:        reg,
		listenPort: listenPort,
	}
}

// SubmitOffer fans an offer out to every other peer in the room.
func (svc *signalingService) SubmitOffer(_ context.Context, roomID, peerID, sdp string) (int, error) {
	if sdp == "" || roomID == "" {
		return 0, ErrMissingSDP
	}
	peerID = orDefault(peerID)

	forwarded := svc.reg.Deliver(registry.Message{
		Kind:      registry.KindOffer,
		RoomID:    roomID,
		PeerID:    peerID,
		SDP:       sdp,
		CreatedAt: time.Now(),
	})
	zap.L().Info("offer_forwarded",
		zap.String("room", roomID),
		zap.String("from", peerID),
		zap.Int("peers", forwarded),
	)
	return forwarded, nil
}

// SubmitAnswer fans an answer out to every other peer in the room.
func (svc *signalingService) SubmitAnswer(_ context.Context, roomID, peerID, sdp string) (int, error) {
	if sdp == "" || roomID == "" {
		return 0, ErrMissingSDP
	}
	peerID = orDefault(peerID)

	forwarded := svc.reg.Deliver(registry.Message{
		Kind:      registry.KindAnswer,
		RoomID:    roomID,
		PeerID:    peerID,
		SDP:       sdp,
		CreatedAt: time.Now(),
	})
	zap.L().Info("answer_forwarded",
		zap.String("room", roomID),
		zap.String("from", peerID),
		zap.Int("peers", forwarded),
	)
	return forwarded, nil
}

// SubmitICECandidate fans an ICE candidate out to every other peer in the
// room. sdpMid and sdpMLineIndex are relayed verbatim, defaults included.
func (svc *signalingService) SubmitICECandidate(_ context.Context, roomID, peerID, candidate, sdpMid string, sdpMLineIndex int) (int, error) {
	if candidate == "" || roomID == "" {
		return 0, ErrMissingCandidate
	}
	peerID = orDefault(peerID)

	forwarded := svc.reg.Deliver(registry.Message{
		Kind:          registry.KindICECandidate,
		RoomID:        roomID,
		PeerID:        peerID,
		Candidate:     candidate,
		SdpMid:        sdpMid,
		SdpMLineIndex: sdpMLineIndex,
		CreatedAt:     time.Now(),
	})
	zap.L().Info("ice_forwarded",
		zap.String("room", roomID),
		zap.String("from", peerID),
		zap.Int("peers", forwarded),
	)
	return forwarded, nil
}

// Poll drains the caller's mailbox. First contact creates the room/peer and
// returns an empty list.
func (svc *signalingService) Poll(_ context.Context, roomID, peerID string) ([]MessageDTO, error) {
	if roomID == "" {
		return nil, ErrMissingRoomID
	}
	peerID = orDefault(peerID)

	drained := svc.reg.Drain(roomID, peerID)
	out := make([]MessageDTO, 0, len(drained))
	for _, msg := range drained {
		out = append(out, toDTO(msg))
	}
	zap.L().Info("poll",
		zap.String("room", roomID),
		zap.String("peer", peerID),
		zap.Int("messages", len(out)),
	)
	return out, nil
}

func (svc *signalingService) Status(_ context.Context) *StatusDTO {
	counts := svc.reg.Snapshot()
	return &StatusDTO{
		Status:               "running",
		Port:                 svc.listenPort,
		Rooms:                counts.Rooms,
		TotalPeers:           counts.Peers,
		TotalPendingMessages: counts.PendingMessages,
		Timestamp:            time.Now().Format(time.RFC3339),
	}
}

func orDefault(peerID string) string {
	if peerID == "" {
		return DefaultPeerID
	}
	return peerID
}

func toDTO(msg registry.Message) MessageDTO {
	dto := MessageDTO{
		Type:      msg.Kind,
		RoomID:    msg.RoomID,
		PeerID:    msg.PeerID,
		Timestamp: float64(msg.CreatedAt.UnixMilli()) / 1000,
	}
	switch msg.Kind {
	case registry.KindICECandidate:
		mid, idx := msg.SdpMid, msg.SdpMLineIndex
		dto.Candidate = msg.Candidate
		dto.SdpMid = &mid
		dto.SdpMLineIndex = &idx
	default:
		dto.SDP = msg.SDP
	}
	return dto
}
