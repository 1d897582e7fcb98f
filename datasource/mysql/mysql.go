package mysql

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type Mysql struct {
	DSN          string
	DB           *sql.DB
	Name         string
	RegisterTime time.Time
}

var mysqlInstances sync.Map

func GetMysql(name string) (*Mysql, error) {
	value, ok := mysqlInstances.Load(name)
	if !ok {
		return nil, fmt.Errorf("mysql not found, name:%s", name)
	}

	mysqlInstance, ok := value.(*Mysql)
	if !ok {
		return nil, fmt.Errorf("mysql not found, name:%s", name)
	}

	return mysqlInstance, nil
}

func (m *Mysql) Init() error {
	db, err := sql.Open("mysql", m.DSN)
	if err != nil {
		return err
	}

	db.SetConnMaxLifetime(60 * time.Minute)
	db.SetMaxIdleConns(50)
	db.SetMaxOpenConns(100)

	m.DB = db
	err = m.DB.Ping()
	return err
}

func RegisterMysql(name, dsn string) {
	value, ok := mysqlInstances.Load(name)
	if ok {
		mysqlInstance, ok2 := value.(*Mysql)
		if ok2 && time.Since(mysqlInstance.RegisterTime) < 12*time.Hour {
			return
		}
	}
	m := &Mysql{
		DSN:          dsn,
		Name:         name,
		RegisterTime: time.Now(),
	}
	err := m.Init()
	if err != nil {
		fmt.Printf("event=RegisterMysql\tname=%s\n", name)
		panic(err)
	}
	mysqlInstances.Store(name, m)
}

func RemoveMysql(name string) {
	value, ok := mysqlInstances.Load(name)
	if !ok {
		return
	}
	mysqlInstance, ok := value.(*Mysql)
	if !ok {
		return
	}

	if mysqlInstance.DB != nil {
		mysqlInstance.DB.Close()
	}

	mysqlInstances.Delete(name)
}
