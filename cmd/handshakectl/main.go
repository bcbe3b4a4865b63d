// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Command handshakectl is a smoke-test harness for the handshakeio driver:
// it runs a full client/server handshake over an in-memory pipe (or, with
// -net=tcp, a real loopback TCP listener/dialer) using the demo RSA
// Endpoint, and reports the negotiated handshake type and whether both
// sides' transcripts agree.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/pion/logging"

	"github.com/wlm328cs/tlshandshake/handshakeio"
	"github.com/wlm328cs/tlshandshake/handshakeio/transcript"
	"github.com/wlm328cs/tlshandshake/internal/demo"
	"github.com/wlm328cs/tlshandshake/internal/nettest"
	"github.com/wlm328cs/tlshandshake/internal/observability"
	"github.com/wlm328cs/tlshandshake/internal/record"
	"github.com/wlm328cs/tlshandshake/internal/sessioncache"
	"github.com/wlm328cs/tlshandshake/internal/sessionticket"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/ciphersuite"
	"github.com/wlm328cs/tlshandshake/pkg/protocol"
)

func main() {
	netMode := flag.String("net", "pipe", "transport for the demo handshake: pipe or tcp")
	resume := flag.Bool("resume", false, "only prints a note; no second, resumed handshake is run")
	ticket := flag.Bool("ticket", false, "issue a session ticket on the full handshake")
	flag.Parse()

	loggerFactory := logging.NewDefaultLoggerFactory()

	clientConn, serverConn, err := dial(*netMode)
	if err != nil {
		log.Fatalf("handshakectl: dial: %v", err)
	}

	cache := sessioncache.New(time.Hour)
	var tickets *sessionticket.Keyring
	if *ticket {
		key, err := sessionticket.NewKey()
		if err != nil {
			log.Fatalf("handshakectl: ticket key: %v", err)
		}
		tickets = &sessionticket.Keyring{Active: key, TTL: time.Hour}
	}

	identity, err := demo.GenerateIdentity("handshakectl-demo")
	if err != nil {
		log.Fatalf("handshakectl: generate identity: %v", err)
	}

	suite, _ := ciphersuite.Lookup(ciphersuite.TLSRSAWithAES128CBCSHA256)

	clientDone := make(chan result, 1)
	serverDone := make(chan result, 1)

	go func() {
		clientDone <- runEndpoint(handshakeio.RoleClient, clientConn, suite, identity, cache, tickets, loggerFactory, *ticket)
	}()
	go func() {
		serverDone <- runEndpoint(handshakeio.RoleServer, serverConn, suite, identity, cache, tickets, loggerFactory, *ticket)
	}()

	clientResult := <-clientDone
	serverResult := <-serverDone

	report("client", clientResult)
	report("server", serverResult)

	if clientResult.err != nil || serverResult.err != nil {
		os.Exit(1)
	}
	if clientResult.transcriptDigest != nil && serverResult.transcriptDigest != nil &&
		string(clientResult.transcriptDigest) != string(serverResult.transcriptDigest) {
		log.Fatal("handshakectl: client and server transcript digests disagree")
	}
	fmt.Println("handshakectl: handshake complete, transcripts agree")

	if *resume {
		fmt.Println("handshakectl: resume flag is noted but a second connection is left to the caller")
	}
}

type result struct {
	handshakeType    string
	transcriptDigest []byte
	err              error
}

func dial(mode string) (net.Conn, net.Conn, error) {
	switch mode {
	case "tcp":
		ln, err := nettest.NewLoopbackListener()
		if err != nil {
			return nil, nil, err
		}
		defer ln.Close()

		serverCh := make(chan net.Conn, 1)
		errCh := make(chan error, 1)
		go func() {
			c, err := ln.Accept()
			if err != nil {
				errCh <- err
				return
			}
			serverCh <- c
		}()

		client, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			return nil, nil, err
		}
		select {
		case server := <-serverCh:
			return client, server, nil
		case err := <-errCh:
			return nil, nil, err
		}
	default:
		return nettest.Pipe()
	}
}

func runEndpoint(
	self handshakeio.Role,
	conn net.Conn,
	suite ciphersuite.Info,
	identity *demo.Identity,
	cache *sessioncache.Cache,
	tickets *sessionticket.Keyring,
	loggerFactory logging.LoggerFactory,
	issueTicket bool,
) result {
	log := loggerFactory.NewLogger(fmt.Sprintf("handshakeio:%s", self))
	tracer := observability.NewHandshakeTracer(log)

	rec := record.New(conn, protocol.Version12, log)

	required := transcript.Required{SHA256: true}
	hashes := transcript.NewHashes(required)

	endpoint := &demo.Endpoint{Self: self, Record: rec, Suite: suite, Local: identity, Tickets: tickets, Cache: cache}
	endpoint.SetTranscript(hashes)

	hConn := handshakeio.NewConn(self, rec, endpoint, log)
	hConn.Transcript = hashes

	if err := hConn.SetHandshakeType(handshakeio.Params{
		Ephemeral:           false,
		OCSPStatusAvailable: false,
		ClientAuth:          handshakeio.ClientAuthNone,
		IssueSessionTicket:  issueTicket && self == handshakeio.RoleServer,
	}); err != nil {
		return result{err: err}
	}

	var blocked handshakeio.Blocked
	tracer.Sending(self.String(), "negotiate-start")
	if err := hConn.Negotiate(&blocked); err != nil {
		tracer.Failed(self.String(), err)
		return result{err: err}
	}
	tracer.Completed(self.String(), hConn.HandshakeTypeName())

	return result{handshakeType: hConn.HandshakeTypeName(), transcriptDigest: hashes.Sum(suite.PRFHash)}
}

func report(who string, r result) {
	if r.err != nil {
		fmt.Printf("%s: error: %v\n", who, r.err)
		return
	}
	fmt.Printf("%s: handshake type %s\n", who, r.handshakeType)
}
