package common

import (
	"io"

	log "github.com/sirupsen/logrus"
)

func CopyByteSlice(buff []byte) []byte {
	res := make([]byte, len(buff))
	copy(res, buff)
	return res
}

func InvokeCloser(closer io.Closer) {
	if closer != nil {
		err := closer.Close()
		if err != nil {
			log.Warnf("failed to close closer %v", err)
		}
	}
}
