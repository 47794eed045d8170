//go:build !linux

package lineio

import "os"

func adviseSequential(*os.File) {}
