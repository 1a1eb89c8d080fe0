//go:build js
// +build js

package store

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

// LocalStorage is a KV over window.localStorage.
type LocalStorage struct {
	obj *js.Object
	log logging.LeveledLogger
}

// NewBrowserKV returns window.localStorage, or an in-memory KV when storage is
// unavailable (private browsing, sandboxed frames).
func NewBrowserKV() KV {
	log := common.Logger("store")
	obj := localStorage()
	if obj == nil || obj == js.Undefined {
		log.Warn("localStorage unavailable, settings will not persist")
		return NewMemoryKV()
	}
	return &LocalStorage{obj: obj, log: log}
}

func localStorage() (obj *js.Object) {
	// Reading window.localStorage throws when storage is disabled.
	defer func() {
		if recover() != nil {
			obj = nil
		}
	}()
	return js.Global.Get("localStorage")
}

func (l *LocalStorage) Get(key string) (string, bool) {
	v := l.obj.Call("getItem", key)
	if v == nil || v == js.Undefined {
		return "", false
	}
	return v.String(), true
}

func (l *LocalStorage) Set(key, value string) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("localStorage.setItem(%s): %v", key, r)
		}
	}()
	l.obj.Call("setItem", key, value)
}

func (l *LocalStorage) Remove(key string) {
	l.obj.Call("removeItem", key)
}

func (l *LocalStorage) Keys() []string {
	n := l.obj.Get("length").Int()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := l.obj.Call("key", i)
		if k == nil || k == js.Undefined {
			continue
		}
		keys = append(keys, k.String())
	}
	return keys
}
