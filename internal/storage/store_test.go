package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"reflect"
	"sort"
	"sync"
	"testing"
	"testing/quick"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xltrail/git-xl/internal/config"
)

// Generate implements quick.Generator.
// Intended for unit tests in this package.
func (Key) Generate(rand *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(generateKey(rand, size))
}

func generateKey(r *rand.Rand, size int) Key {
	if size < 0 {
		size = -size
	}
	if size == 0 {
		size = 1
	}
	b := make([]byte, size)
	n, err := r.Read(b)
	if err != nil {
		panic(err)
	}
	if n != size {
		panic(fmt.Sprintf("got %d, want %d random bytes", n, size))
	}
	return Key(fmt.Sprintf("%02x", b))
}

func TestKeyGenerate(t *testing.T) {
	t.Run("random keys are distinct", func(t *testing.T) {
		f := func(k1, k2 Key) bool {
			return k1 != k2
		}
		if err := quick.Check(f, nil); err != nil {
			t.Error(err)
		}
	})
	t.Run("random keys are of the required size", func(t *testing.T) {
		r := rand.New(rand.NewSource(1))
		f := func(smallSize uint8) bool {
			size := int(smallSize)
			key := generateKey(r, size)
			return len(key) == 2*max(size, 1)
		}
		if err := quick.Check(f, nil); err != nil {
			t.Error(err)
		}
	})
}

// fakeS3 keeps objects in memory. Methods not overridden panic through the
// nil embedded interface.
type fakeS3 struct {
	s3iface.S3API
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.StringValue(input.Key)]
	if !ok {
		return nil, awserr.NewRequestFailure(awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil), 404, "request-id")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[aws.StringValue(input.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.StringValue(input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.StringValue(input.Key)]; !ok {
		return nil, awserr.NewRequestFailure(awserr.New("NotFound", "not found", nil), 404, "request-id")
	}
	return &s3.HeadObjectOutput{}, nil
}

// ListObjectsV2Pages serves two keys per page, in key order.
func (f *fakeS3) ListObjectsV2Pages(_ *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	f.mu.Lock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	f.mu.Unlock()
	sort.Strings(keys)
	for len(keys) > 0 {
		n := min(2, len(keys))
		page := &s3.ListObjectsV2Output{}
		for _, k := range keys[:n] {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
		}
		keys = keys[n:]
		if !fn(page, len(keys) == 0) {
			break
		}
	}
	return nil
}

func TestStoreImplementations(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*testing.T) Store
	}{
		{
			"disk",
			func(t *testing.T) Store {
				return NewDiskStore(t.TempDir())
			},
		},
		{
			"in memory",
			func(t *testing.T) Store {
				return &InMemory{}
			},
		},
		{
			"s3",
			func(t *testing.T) Store {
				return &s3Store{client: &fakeS3{}, bucket: "modules"}
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			testStore(t, c.setup(t))
		})
	}
}

func testStore(t *testing.T, impl Store) {
	t.Run("you get what you put", func(t *testing.T) {
		f := func(key Key, value Value) bool {
			err := impl.Put(key, value)
			if err != nil {
				t.Fatal(err)
			}
			v, err := impl.Get(key)
			if err != nil {
				t.Fatal(err)
			}
			return bytes.Equal(v, value)
		}
		if err := quick.Check(f, &quick.Config{MaxCount: 10}); err != nil {
			t.Error(err)
		}
	})
	t.Run("should not get a deleted key", func(t *testing.T) {
		f := func(key Key, value Value) bool {
			err := impl.Put(key, value)
			if err != nil {
				t.Fatal(err)
			}
			err = impl.Delete(key)
			if err != nil {
				t.Fatal(err)
			}
			v, err := impl.Get(key)
			vok := v == nil
			eok := errors.Is(err, ErrNotFound)
			if !eok {
				t.Errorf("got %v of type %T, want wrapper of %v", err, err, ErrNotFound)
			}
			return vok && eok
		}
		if err := quick.Check(f, &quick.Config{MaxCount: 10}); err != nil {
			t.Error(err)
		}
	})
	t.Run("delete inexistent key is successful", func(t *testing.T) {
		f := func(key Key) bool {
			err := impl.Delete(key)
			if err != nil {
				t.Error(err)
				return false
			}
			return true
		}
		if err := quick.Check(f, &quick.Config{MaxCount: 10}); err != nil {
			t.Error(err)
		}
	})
}

func TestNullStore(t *testing.T) {
	var s NullStore
	require.NoError(t, s.Put("ab", Value("x")))
	_, err := s.Get("ab")
	assert.True(t, errors.Is(err, ErrNotFound))
	ok, err := s.Contains("ab")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemory(t *testing.T) {
	var s InMemory
	buf := Value("abc")
	require.NoError(t, s.Put("02", buf))
	require.NoError(t, s.Put("01", Value("x")))
	buf[0] = 'z'
	v, err := s.Get("02")
	require.NoError(t, err)
	assert.Equal(t, Value("abc"), v)
	v[0] = 'z'
	v, _ = s.Get("02")
	assert.Equal(t, Value("abc"), v)

	ok, err := s.Contains("01")
	require.NoError(t, err)
	assert.True(t, ok)

	var keys []Key
	require.NoError(t, s.ForEach(func(k Key) error {
		keys = append(keys, k)
		return s.Delete(k)
	}))
	assert.Equal(t, []Key{"01", "02"}, keys)
	assert.Equal(t, 0, s.Len())
}

func TestNewStore(t *testing.T) {
	base := t.TempDir()
	c := config.Default(base)

	s, err := NewStore(c)
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, s)

	c.Cache.Storage = config.StorageMemory
	s, err = NewStore(c)
	require.NoError(t, err)
	assert.IsType(t, &InMemory{}, s)

	c.Cache.Storage = config.StorageNull
	s, err = NewStore(c)
	require.NoError(t, err)
	assert.Equal(t, NullStore{}, s)

	c.Cache.Storage = config.StorageS3
	_, err = NewStore(c)
	assert.Error(t, err, "bucket is required")

	c.Cache.Storage = "tape"
	_, err = NewStore(c)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}
