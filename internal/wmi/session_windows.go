//go:build windows

package wmi

import (
	"context"
	"runtime"
	"sync"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/zx06/wmicmd/internal/errors"
)

// sFalse is returned by CoInitializeEx when the thread is already
// initialised.
const sFalse = 0x00000001

// DefaultProvider returns the COM backed provider.
func DefaultProvider() Provider {
	return comProvider{}
}

type comProvider struct{}

// Acquire starts a goroutine locked to its OS thread, initialises COM on
// it and routes every later COM call through it.
func (comProvider) Acquire() (Session, error) {
	s := &comSession{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}
	ready := make(chan error, 1)
	go s.loop(ready)
	if err := <-ready; err != nil {
		return nil, errors.Wrap(errors.CodeSessionFailed, "Failed to initialise the COM layer", nil, err)
	}
	return s, nil
}

type comSession struct {
	mu     sync.RWMutex
	closed bool
	calls  chan func()
	done   chan struct{}
}

func (s *comSession) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); !ok || (oleErr.Code() != ole.S_OK && oleErr.Code() != sFalse) {
			ready <- err
			return
		}
	}
	defer ole.CoUninitialize()
	ready <- nil

	for fn := range s.calls {
		fn()
	}
}

// do runs fn on the COM thread and waits for it.
func (s *comSession) do(ctx context.Context, fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errScopeClosed
	}
	res := make(chan error, 1)
	select {
	case s.calls <- func() { res <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-res
}

func (s *comSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.calls)
	<-s.done
	return nil
}

func (s *comSession) Connect(ctx context.Context, t Target) (Conn, error) {
	var raw *ole.VARIANT
	err := s.do(ctx, func() error {
		unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
		if err != nil {
			return err
		}
		defer unknown.Release()

		locator, err := unknown.QueryInterface(ole.IID_IDispatch)
		if err != nil {
			return err
		}
		defer locator.Release()

		raw, err = oleutil.CallMethod(locator, "ConnectServer", t.Host, t.Namespace, t.User, t.Password)
		return err
	})
	if err != nil {
		return nil, connectError(t, err)
	}
	return &comConn{session: s, host: t.Host, raw: raw, service: raw.ToIDispatch()}, nil
}

type comConn struct {
	session *comSession
	host    string
	raw     *ole.VARIANT
	service *ole.IDispatch
}

func (c *comConn) Query(ctx context.Context, wql string, opts QueryOptions) ([]Object, error) {
	var objects []Object
	err := c.session.do(ctx, func() error {
		resRaw, err := oleutil.CallMethod(c.service, "ExecQuery", wql)
		if err != nil {
			return err
		}
		defer resRaw.Clear()
		result := resRaw.ToIDispatch()

		countVar, err := oleutil.GetProperty(result, "Count")
		if err != nil {
			return err
		}
		count := int(countVar.Val)
		_ = countVar.Clear()

		for i := 0; i < count; i++ {
			if opts.Top > 0 && i >= opts.Top {
				break
			}
			itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
			if err != nil {
				return err
			}
			obj, err := readObject(itemRaw.ToIDispatch())
			_ = itemRaw.Clear()
			if err != nil {
				return err
			}
			objects = append(objects, obj)
		}
		return nil
	})
	if err != nil {
		return nil, queryError(c.host, wql, err)
	}
	return objects, nil
}

func (c *comConn) Close() error {
	return c.session.do(context.Background(), func() error {
		return c.raw.Clear()
	})
}

func readObject(item *ole.IDispatch) (Object, error) {
	var obj Object

	pathRaw, err := oleutil.GetProperty(item, "Path_")
	if err != nil {
		return obj, err
	}
	class, err := stringProperty(pathRaw.ToIDispatch(), "Class")
	_ = pathRaw.Clear()
	if err != nil {
		return obj, err
	}
	obj.Class = class

	propsRaw, err := oleutil.GetProperty(item, "Properties_")
	if err != nil {
		return obj, err
	}
	defer propsRaw.Clear()

	err = oleutil.ForEach(propsRaw.ToIDispatch(), func(v *ole.VARIANT) error {
		prop := v.ToIDispatch()
		name, err := stringProperty(prop, "Name")
		if err != nil {
			return err
		}
		typeRaw, err := oleutil.GetProperty(prop, "CIMType")
		if err != nil {
			return err
		}
		cimType := CIMTypeName(int(typeRaw.Val))
		_ = typeRaw.Clear()

		valueRaw, err := oleutil.GetProperty(prop, "Value")
		if err != nil {
			return err
		}
		value := variantValue(valueRaw)
		_ = valueRaw.Clear()

		obj.Properties = append(obj.Properties, Property{Name: name, Type: cimType, Value: value})
		return nil
	})
	return obj, err
}

func stringProperty(disp *ole.IDispatch, name string) (string, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	return v.ToString(), nil
}

func variantValue(v *ole.VARIANT) any {
	if v.VT&ole.VT_ARRAY != 0 {
		arr := v.ToArray()
		if arr == nil {
			return nil
		}
		return arr.ToValueArray()
	}
	return v.Value()
}
