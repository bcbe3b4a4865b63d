// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

//go:build linux

package socketopts

import (
	"net"

	"golang.org/x/sys/unix"
)

const corkSupported = true

func setCork(tcp *net.TCPConn, on bool) error {
	raw, err := tcp.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	value := 0
	if on {
		value = 1
	}
	if err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_CORK, value)
	}); err != nil {
		return err
	}
	return sockErr
}

func setQuickAck(tcp *net.TCPConn) error {
	raw, err := tcp.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	}); err != nil {
		return err
	}
	return sockErr
}
