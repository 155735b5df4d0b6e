// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package pb

import (
	"testing"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestSearchReplyNested(t *testing.T) {
	in := &SearchReply{
		Matches: []*Match{
			{Index: 3, Root: "1890", Nonce: "6751269000", Digest: "00ab", Zeros: 2},
			{Index: 1, Root: "630", Nonce: "250047000", Digest: "0f00", Zeros: 1},
		},
		Checked: 1000,
		Stop:    "capped",
	}
	b, err := in.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	var out SearchReply
	if err := out.Unmarshal(b); err != nil {
		t.Fatal(err)
	}
	if len(out.Matches) != 2 || *out.Matches[0] != *in.Matches[0] || *out.Matches[1] != *in.Matches[1] {
		t.Fatalf("matches differ: %+v", out.Matches)
	}
	if out.Checked != 1000 || out.Stop != "capped" || out.Saturated != 0 {
		t.Fatalf("unexpected reply %+v", out)
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	b, _ := (&VerifyRequest{Nonce: "8", CubeDifficulty: 2}).Marshal()
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future")
	b = protowire.AppendTag(b, 98, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 7)

	var out VerifyRequest
	if err := out.Unmarshal(b); err != nil {
		t.Fatal(err)
	}
	if out.Nonce != "8" || out.CubeDifficulty != 2 {
		t.Fatalf("unexpected request %+v", out)
	}
}

func TestWrongWireType(t *testing.T) {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	b = protowire.AppendString(b, "x")

	var out SearchRequest
	if err := out.Unmarshal(b); err == nil {
		t.Fatal("expected wire type error")
	}
	if err := out.Unmarshal([]byte{0x08}); err == nil {
		t.Fatal("expected truncated varint error")
	}
}

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	if c == nil {
		t.Fatal("codec not registered")
	}

	b, err := c.Marshal(&VerifyReply{Valid: true, Reason: "Valid!"})
	if err != nil {
		t.Fatal(err)
	}
	var reply VerifyReply
	if err := c.Unmarshal(b, &reply); err != nil || !reply.Valid || reply.Reason != "Valid!" {
		t.Fatalf("got (%+v, %v)", reply, err)
	}

	b, err = c.Marshal(wrapperspb.String("proto"))
	if err != nil {
		t.Fatal(err)
	}
	var w wrapperspb.StringValue
	if err := c.Unmarshal(b, &w); err != nil || w.Value != "proto" {
		t.Fatalf("proto fallback failed: (%v, %v)", w.Value, err)
	}

	if _, err := c.Marshal(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
