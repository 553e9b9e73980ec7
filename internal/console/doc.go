// Package console はストアコンソールのセッションと画面遷移を管理する。
//
// Controller はUIからの操作（ログイン、画面遷移、カート操作など）を
// APIの呼び出しに変換し、結果をScreenに描画用の状態として書き込む。
// 遷移できる画面はロールごとのナビゲーション表で決まり、
// 画面を開くとその画面のローダーが1回だけ実行される。
//
// 認証付きリクエストが401を受け取ると、ゲートウェイのコールバックにより
// セッションは強制的に終了し、ログイン画面に戻る。
package console
