package outwriter

import (
	"fmt"

	"github.com/endora-app/endoscope/schema"
)

// PrintSnapshotStatus prints snapshot store status information.
func PrintSnapshotStatus(status schema.SnapshotStatus) {
	fmt.Printf("Snapshot Backend: %s\n", status.Backend)
	fmt.Printf("Users: %d\n", status.Users)
	fmt.Printf("Sessions: %d\n", status.Sessions)
	fmt.Printf("App Events: %d\n", status.AppEvents)
	fmt.Printf("Bubble Events: %d\n", status.BubbleEvents)
	if status.Sessions > 0 {
		fmt.Printf("Session Days: %s to %s\n", status.FirstSessionDay, status.LastSessionDay)
	}
	if status.ImportedAt.IsZero() {
		fmt.Println("Imported: never")
		return
	}
	fmt.Printf("Imported: %s\n", status.ImportedAt.Format("2006-01-02 15:04:05"))
}
