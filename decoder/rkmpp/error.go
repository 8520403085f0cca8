package rkmpp

import (
	"fmt"
)

// ErrMPP is a non-MPP_OK return code of an MPP call.
type ErrMPP struct {
	Func string
	Code int32
}

func (e ErrMPP) Error() string {
	return fmt.Sprintf("%s returned %s", e.Func, mppErrorName(e.Code))
}

func check(funcName string, code int32) error {
	if code == mppOK {
		return nil
	}
	return ErrMPP{Func: funcName, Code: code}
}

type ErrLibrary struct {
	Paths []string
	Err   error
}

func (e ErrLibrary) Error() string {
	return fmt.Sprintf("unable to load the Rockchip MPP library (tried %v): %v", e.Paths, e.Err)
}

func (e ErrLibrary) Unwrap() error {
	return e.Err
}
