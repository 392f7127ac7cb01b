package service

import (
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

const directoryKey = "doctors:active"

// DoctorDirectory is an in-process cache of the active doctor list
type DoctorDirectory interface {
	Get() ([]entity.Doctor, bool)
	Set(doctors []entity.Doctor)
	Invalidate()
}

type memoryDoctorDirectory struct {
	cache *cache.Cache
}

func NewDoctorDirectory(ttl time.Duration) DoctorDirectory {
	return &memoryDoctorDirectory{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (d *memoryDoctorDirectory) Get() ([]entity.Doctor, bool) {
	cached, found := d.cache.Get(directoryKey)
	if !found {
		return nil, false
	}
	doctors, ok := cached.([]entity.Doctor)
	return doctors, ok
}

func (d *memoryDoctorDirectory) Set(doctors []entity.Doctor) {
	d.cache.SetDefault(directoryKey, doctors)
}

func (d *memoryDoctorDirectory) Invalidate() {
	d.cache.Delete(directoryKey)
}
