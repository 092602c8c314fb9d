package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"ambient-chat/repositories"
)

// Offline dump of the message store: rooms and message logs, readable
// without running the server.
func main() {
	dbPath := flag.String("db", "/tmp/ambient-chat/badger", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg: or room:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Room", "Sender", "Timestamp", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				switch {
				case strings.HasPrefix(rawKey, "room:"):
					var room repositories.DiskRoom
					if err := json.Unmarshal(v, &room); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					mode := "open"
					if room.MysteryMode {
						mode = color.Magenta.Sprint("mystery")
					}
					table.Append([]string{
						rawKey,
						fmt.Sprintf("%d", room.ID),
						mode,
						room.CreatedAt.Format("15:04:05"),
						room.Name,
					})
				default:
					var message repositories.DiskMessage
					if err := json.Unmarshal(v, &message); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					sender := color.Green.Sprint(message.SenderID)
					if message.SenderKind == "persona" {
						sender = color.Cyan.Sprint(message.SenderID)
					}
					content := message.Content
					if len(content) > 60 {
						content = content[:60] + "..."
					}
					table.Append([]string{
						rawKey,
						fmt.Sprintf("%d", message.Room),
						sender,
						message.At.Format("15:04:05"),
						content,
					})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
