// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pht is a container for the MS8607 pressure, humidity and
// temperature sensor driver and its tools.
//
// The driver lives in package ms8607, shared checksums and bus adapters in
// package common, a terminal gauge in package envbar and a command line
// monitor in cmd/ms8607.
package pht
