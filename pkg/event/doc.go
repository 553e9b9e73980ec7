// Package event はコンソールで発生した出来事（ログイン、画面遷移、購入など）を
// UUID付きのイベントレコードとして表現し、Sinkへ配送する。
package event
