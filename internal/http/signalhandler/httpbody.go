package signalhandler

// SubmitSDPBody is shared by /offer and /answer; the two operations differ
// only in the message kind they queue. Required-field checks live in the
// service so the error text is identical for body and query callers.
type SubmitSDPBody struct {
	SDP    string `json:"sdp"    example:"v=0..."`
	RoomID string `json:"roomId" example:"room42"`
	PeerID string `json:"peerId" example:"phone-1"`
} // @name SubmitSDPRequest

type SubmitCandidateBody struct {
	Candidate     string `json:"candidate" example:"candidate:0 1 UDP 2122252543 192.0.2.1 49203 typ host"`
	RoomID        string `json:"roomId"    example:"room42"`
	PeerID        string `json:"peerId"    example:"phone-1"`
	SdpMid        string `json:"sdpMid"    example:"0"`
	SdpMLineIndex int    `json:"sdpMLineIndex" example:"0"`
} // @name SubmitCandidateRequest

type SubmitResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ForwardedTo int    `json:"forwardedTo"`
} // @name SubmitResponse

type PollQuery struct {
	RoomID string `form:"roomId"`
	PeerID string `form:"peerId"`
} // @name PollQuery

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
