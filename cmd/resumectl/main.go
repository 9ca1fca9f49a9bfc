// resumectl is a small terminal helper: it lists the analyzed projects from a
// running server and prints a browser URL previewing a résumé built from the
// chosen subset.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type project struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

func apiURL() string {
	if v := os.Getenv("API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://localhost:8080"
}

func fetchProjects(base string) ([]project, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(base + "/projects")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /projects: %s", resp.Status)
	}
	var out []project
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func selectProjects(projects []project, in *bufio.Reader) []string {
	fmt.Println("Select projects to include:")
	fmt.Println()
	for i, p := range projects {
		line := fmt.Sprintf("%d. %s (%s)", i+1, p.Name, p.ID)
		if len(p.Skills) > 0 {
			n := len(p.Skills)
			if n > 3 {
				n = 3
			}
			line += " - " + strings.Join(p.Skills[:n], ", ")
		}
		fmt.Println(line)
	}

	for {
		fmt.Print("\nEnter numbers (comma-separated): ")
		raw, err := in.ReadString('\n')
		if err != nil {
			return nil
		}
		ids := []string{}
		valid := true
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, convErr := strconv.Atoi(part)
			if convErr != nil || n < 1 || n > len(projects) {
				valid = false
				break
			}
			ids = append(ids, projects[n-1].ID)
		}
		if valid && len(ids) > 0 {
			return ids
		}
		fmt.Println("Invalid input. Please enter numbers like: 1,2,3")
	}
}

func previewURL(base string, projectIDs []string) string {
	if len(projectIDs) == 0 {
		return base + "/resume/view"
	}
	q := url.Values{}
	q.Set("project_ids", strings.Join(projectIDs, ","))
	return base + "/resume/view?" + q.Encode()
}

func main() {
	_ = godotenv.Load()
	base := apiURL()

	projects, err := fetchProjects(base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch projects from %s/projects.\nStart the server or set API_URL.\nError: %v\n", base, err)
		os.Exit(1)
	}
	if len(projects) == 0 {
		fmt.Println("No analyzed projects yet; run an analysis first.")
		return
	}

	ids := selectProjects(projects, bufio.NewReader(os.Stdin))
	fmt.Println("\nOpen this link in your browser to preview the resume:")
	fmt.Println()
	fmt.Println(previewURL(base, ids))
}
