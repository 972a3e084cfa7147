// MIT License
//
// # Copyright (c) 2025 Jimmy Fjällid
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package dcerpc

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// BindOptions tune the bind request. Zero values select the defaults.
type BindOptions struct {
	MaxXmitFrag uint16
	MaxRecvFrag uint16
	ContextId   uint16
	// Association group to join. 0 requests a new one.
	Association uint32
}

// ServiceBind is a bound interface on a byte stream. It implements Transport.
type ServiceBind struct {
	mu sync.Mutex
	// callId always contains the last used value, so call Add(1) first
	callId    *atomic.Uint32
	conn      io.ReadWriter
	contextId uint16
	// Max size of fragment the server accepts
	maxFragTransmitSize uint16
	// Max size of fragment server should send
	maxFragReceiveSize uint16
	Association        uint32
	SecAddr            string
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// Bind negotiates the interface iface on conn using the NDR transfer syntax.
func Bind(ctx context.Context, conn io.ReadWriter, iface SyntaxId, opts BindOptions) (bind *ServiceBind, err error) {
	log.Debugln("In Bind")
	if opts.MaxXmitFrag == 0 {
		opts.MaxXmitFrag = MSRPCDefaultFragSize
	}
	if opts.MaxRecvFrag == 0 {
		opts.MaxRecvFrag = MSRPCDefaultFragSize
	}

	sb := &ServiceBind{
		callId:    &atomic.Uint32{},
		conn:      conn,
		contextId: opts.ContextId,
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if err = sb.applyDeadline(ctx); err != nil {
		return
	}
	defer sb.clearDeadline()

	callId := sb.callId.Add(1)
	req := BindReq{
		Header:          newHeader(PacketTypeBind),
		MaxSendFragSize: opts.MaxXmitFrag,
		MaxRecvFragSize: opts.MaxRecvFrag,
		Association:     opts.Association,
		ContextList: []ContextItem{
			{
				Id:             opts.ContextId,
				AbstractSyntax: iface,
				TransferSyntax: []SyntaxId{MSRPCNdrTransferSyntax},
			},
		},
	}
	req.CallId = callId
	buf, err := req.MarshalBinary()
	if err != nil {
		log.Errorln(err)
		return
	}
	if _, err = conn.Write(buf); err != nil {
		log.Errorln(err)
		return
	}

	pdu, err := readPDU(conn)
	if err != nil {
		log.Errorln(err)
		return
	}
	hdr := Header{}
	if err = hdr.UnmarshalBinary(pdu); err != nil {
		log.Errorln(err)
		return
	}
	if hdr.CallId != callId {
		err = fmt.Errorf("Received invalid callId: %d", hdr.CallId)
		log.Errorln(err)
		return
	}

	switch hdr.Type {
	case PacketTypeBindAck:
	case PacketTypeBindNak:
		nak := BindNak{}
		if err = nak.UnmarshalBinary(pdu); err != nil {
			log.Errorln(err)
			return
		}
		reason, found := bindNakReasonMap[nak.RejectReason]
		if !found {
			reason = fmt.Sprintf("unknown reason %d", nak.RejectReason)
		}
		err = &BindError{Reason: reason}
		log.Errorln(err)
		return
	default:
		err = fmt.Errorf("Invalid response from server: unexpected PDU type %d", hdr.Type)
		log.Errorln(err)
		return
	}

	res := BindRes{}
	if err = res.UnmarshalBinary(pdu); err != nil {
		log.Errorln(err)
		return
	}
	// Check if Bind was successful
	if len(res.ResultList) == 0 {
		err = &BindError{Reason: "empty result list"}
		log.Errorln(err)
		return
	}
	if res.ResultList[0].Result != ResultAcceptance {
		reason, found := providerReasonMap[res.ResultList[0].Reason]
		if !found {
			reason = fmt.Sprintf("unknown reason %d", res.ResultList[0].Reason)
		}
		err = &BindError{Reason: reason}
		log.Errorln(err)
		return
	}

	sb.maxFragTransmitSize = min(res.MaxRecvFragSize, opts.MaxXmitFrag)
	sb.maxFragReceiveSize = res.MaxSendFragSize
	sb.Association = res.Association
	sb.SecAddr = res.SecAddr
	if sb.maxFragTransmitSize < RequestHeaderSize+8 {
		err = fmt.Errorf("Server negotiated an unusable fragment size of %d", sb.maxFragTransmitSize)
		log.Errorln(err)
		return
	}
	return sb, nil
}

func (sb *ServiceBind) applyDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d, ok := sb.conn.(deadliner); ok {
		if deadline, set := ctx.Deadline(); set {
			return d.SetDeadline(deadline)
		}
	}
	return nil
}

func (sb *ServiceBind) clearDeadline() {
	if d, ok := sb.conn.(deadliner); ok {
		d.SetDeadline(time.Time{})
	}
}

// readPDU reads exactly one PDU from r, using the fragment length in the
// common header.
func readPDU(r io.Reader) ([]byte, error) {
	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	fragLen := int(le.Uint16(hdr[8:]))
	if fragLen < HeaderSize {
		return nil, fmt.Errorf("Invalid fragment length %d", fragLen)
	}
	buf := make([]byte, fragLen)
	copy(buf, hdr)
	if _, err := io.ReadFull(r, buf[HeaderSize:]); err != nil {
		return nil, err
	}
	return buf, nil
}

// Call sends stub as the body of a request for opnum and returns the
// reassembled response stub. Requests larger than the negotiated fragment
// size are split.
func (sb *ServiceBind) Call(ctx context.Context, opnum uint16, stub []byte) (result []byte, err error) {
	log.Debugln("In Call")
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if err = sb.applyDeadline(ctx); err != nil {
		return
	}
	defer sb.clearDeadline()

	callId := sb.callId.Add(1)
	// Keep every fragment but the last a multiple of 8 bytes
	maxStub := (int(sb.maxFragTransmitSize) - RequestHeaderSize) &^ 7
	offset := 0
	for {
		end := min(offset+maxStub, len(stub))
		req := RequestReq{
			Header:    newHeader(PacketTypeRequest),
			AllocHint: uint32(len(stub) - offset),
			ContextId: sb.contextId,
			Opnum:     opnum,
			Buffer:    stub[offset:end],
		}
		req.CallId = callId
		req.Flags = 0
		if offset == 0 {
			req.Flags |= PfcFirstFrag
		}
		if end == len(stub) {
			req.Flags |= PfcLastFrag
		}
		var buf []byte
		if buf, err = req.MarshalBinary(); err != nil {
			log.Errorln(err)
			return
		}
		if _, err = sb.conn.Write(buf); err != nil {
			log.Errorln(err)
			return
		}
		offset = end
		if offset == len(stub) {
			break
		}
	}

	return sb.readResponse(opnum, callId)
}

func (sb *ServiceBind) readResponse(opnum uint16, callId uint32) (result []byte, err error) {
	for {
		var pdu []byte
		if pdu, err = readPDU(sb.conn); err != nil {
			log.Errorln(err)
			return nil, err
		}
		hdr := Header{}
		if err = hdr.UnmarshalBinary(pdu); err != nil {
			log.Errorln(err)
			return nil, err
		}
		if hdr.CallId != callId {
			err = fmt.Errorf("Incorrect CallId on response. Sent %d and received %d", callId, hdr.CallId)
			log.Errorln(err)
			return nil, err
		}
		switch hdr.Type {
		case PacketTypeResponse:
		case PacketTypeFault:
			fault := FaultRes{}
			if err = fault.UnmarshalBinary(pdu); err != nil {
				log.Errorln(err)
				return nil, err
			}
			err = &FaultError{Opnum: opnum, Status: fault.Status}
			log.Errorln(err)
			return nil, err
		default:
			err = fmt.Errorf("Unexpected PDU type %d in response to a request", hdr.Type)
			log.Errorln(err)
			return nil, err
		}
		res := RequestRes{}
		if err = res.UnmarshalBinary(pdu); err != nil {
			log.Errorln(err)
			return nil, err
		}
		result = append(result, res.Buffer...)
		if hdr.Flags&PfcLastFrag != 0 {
			return result, nil
		}
	}
}

// MaxFragments returns the negotiated transmit and receive fragment sizes.
func (sb *ServiceBind) MaxFragments() (xmit, recv uint16) {
	return sb.maxFragTransmitSize, sb.maxFragReceiveSize
}

// interface guard
var _ Transport = (*ServiceBind)(nil)

