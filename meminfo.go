// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package khuff

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// memTotal is the total usable DRAM. On Linux, this
// value is read from /proc/meminfo. On other systems,
// or if /proc/meminfo cannot be parsed, this value
// remains zero and should be ignored.
var memTotal int64

// MapLimit is the largest input, in bytes, that
// Compress maps into memory. Larger inputs are
// read through the file instead. Zero means no limit.
var MapLimit = memTotal / 2

func init() {
	// Only Linux is supported for now.
	if runtime.GOOS != "linux" {
		return
	}
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return
	}
	defer f.Close()
	memTotal = parseMemTotal(bufio.NewScanner(f))
	MapLimit = memTotal / 2
}

func parseMemTotal(s *bufio.Scanner) int64 {
	for s.Scan() {
		rest, ok := strings.CutPrefix(s.Text(), "MemTotal:")
		if !ok {
			continue
		}
		kb, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSpace(rest), " kB"), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("/proc/meminfo: %s", err))
		}
		return kb * 1024
	}
	return 0
}
