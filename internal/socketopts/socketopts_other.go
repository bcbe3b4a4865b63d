// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

//go:build !linux

package socketopts

import "net"

const corkSupported = false

func setCork(*net.TCPConn, bool) error { return nil }

func setQuickAck(*net.TCPConn) error { return nil }
