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

//go:build linux

package khuff

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps size bytes of f read-only.
// It returns false if the file cannot be
// mapped, in which case the caller should
// read the file instead.
func mmap(f *os.File, size int64) ([]byte, bool) {
	if size <= 0 || int64(int(size)) != size {
		return nil, false
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, false
	}
	// both passes read front to back
	unix.Madvise(mem, unix.MADV_SEQUENTIAL)
	return mem, true
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}
