// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms8607

import logger "github.com/d2r2/go-logger"

// You can manage verbosity of log output in the package by changing last
// parameter value, or at run time with
// logger.ChangePackageLogLevel("ms8607", logger.DebugLevel).
var lg = logger.NewPackageLogger("ms8607",
	// logger.DebugLevel,
	logger.InfoLevel,
)
